package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studylog/internal/models"
	"studylog/internal/notifier"
	"studylog/internal/repository"
	"studylog/internal/throttle"
	"studylog/internal/token"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("account is disabled")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

type AuthService interface {
	Register(username, email, password string) (*models.User, error)
	// Login verifies credentials and issues a signed token. The three
	// failure sentinels map to three distinct HTTP outcomes at the
	// handler; unknown user and wrong password are deliberately the
	// same sentinel.
	Login(login, password string) (string, time.Time, error)
	ResetThrottle(key string)
	ClearThrottle()
}

type authService struct {
	users    repository.UserRepository
	codec    *token.Codec
	throttle *throttle.LoginThrottle
	alerts   notifier.Notifier
	log      *zap.Logger
}

func NewAuthService(users repository.UserRepository, codec *token.Codec, th *throttle.LoginThrottle, alerts notifier.Notifier, log *zap.Logger) AuthService {
	return &authService{users: users, codec: codec, throttle: th, alerts: alerts, log: log}
}

func (s *authService) Register(username, email, password string) (*models.User, error) {
	if existing, err := s.users.GetByLogin(username); err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	} else if existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if existing, err := s.users.GetByLogin(email); err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	} else if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  username,
		Role:         models.RoleUser,
		Enabled:      true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("User registered", zap.String("username", username))
	return user, nil
}

func (s *authService) Login(login, password string) (string, time.Time, error) {
	// Throttle first, keyed by the submitted login identifier, so a
	// guessing attacker burns the target account's budget even when
	// the account does not exist.
	key := throttle.Key(login)
	if !s.throttle.Allow(key) {
		s.log.Warn("Login throttled", zap.String("key", key))
		s.alerts.LoginBlocked(key)
		return "", time.Time{}, ErrTooManyAttempts
	}

	user, err := s.users.GetByLogin(login)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load account: %w", err)
	}
	if user == nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if !user.Enabled {
		return "", time.Time{}, ErrUserDisabled
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	tokenString, err := s.codec.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}

	// A successful login clears the window for that account.
	s.throttle.Reset(key)

	s.log.Info("User logged in", zap.String("username", user.Username))
	return tokenString, time.Now().Add(s.codec.Lifetime()), nil
}

func (s *authService) ResetThrottle(key string) {
	s.throttle.Reset(throttle.Key(key))
}

func (s *authService) ClearThrottle() {
	s.throttle.ClearAll()
}
