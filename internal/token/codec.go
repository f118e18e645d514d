package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Decode failure taxonomy. Callers must be able to tell "nothing
// supplied" apart from "bad token supplied", so the empty-input case is
// its own sentinel rather than a parse error.
var (
	ErrEmptyToken   = errors.New("token: empty token string")
	ErrMalformed    = errors.New("token: malformed token")
	ErrBadSignature = errors.New("token: signature verification failed")
	ErrExpired      = errors.New("token: token expired")
)

// MinSecretLen is the minimum accepted signing secret length. HS256
// keys shorter than the hash output weaken the MAC.
const MinSecretLen = 32

// Claims are the fields embedded in every issued token. Field names
// (uid, role, sub, iat, exp) are part of the wire contract.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed identity tokens. The secret
// and lifetime are fixed at construction; a Codec is safe for
// unsynchronized concurrent use.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewCodec(secret string, lifetime time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("token: signing secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	if lifetime <= 0 {
		return nil, errors.New("token: token lifetime must be positive")
	}
	return &Codec{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Issue signs a token for the given account. userID must be a UUID;
// all three arguments are required.
func (c *Codec) Issue(userID, loginName, role string) (string, error) {
	if userID == "" || loginName == "" || role == "" {
		return "", errors.New("token: userID, loginName and role are required")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("token: userID must be a valid UUID: %w", err)
	}

	now := c.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   loginName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and expiry of tokenStr and returns its
// claims. It performs no account lookup. Failures map onto the
// package sentinels; expiry is checked before anything else the jwt
// library reports alongside it.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, ErrEmptyToken
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// Refuse anything but HMAC so an attacker cannot downgrade to
		// alg=none or swap in an asymmetric scheme.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !tok.Valid {
		return nil, ErrMalformed
	}

	return claims, nil
}

// Lifetime reports the configured token validity duration.
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}
