package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studylog/internal/models"
	"studylog/internal/throttle"
	"studylog/internal/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeUserRepo keys users by username and email, like the real query.
type fakeUserRepo struct {
	users []*models.User
	err   error
}

func (f *fakeUserRepo) Create(u *models.User) error {
	u.CreatedAt = time.Now()
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) GetByLogin(login string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateProfile(id, displayName, bio string) error { return nil }
func (f *fakeUserRepo) SetEnabled(id string, enabled bool) error        { return nil }

type fakeNotifier struct {
	blocked []string
}

func (f *fakeNotifier) LoginBlocked(key string) {
	f.blocked = append(f.blocked, key)
}

func newAuthService(t *testing.T, repo *fakeUserRepo, maxAttempts int) (AuthService, *token.Codec, *fakeNotifier) {
	t.Helper()
	codec, err := token.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	alerts := &fakeNotifier{}
	svc := NewAuthService(repo, codec, throttle.New(maxAttempts, time.Minute), alerts, zap.NewNop())
	return svc, codec, alerts
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, email, password string, enabled bool) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Enabled:      enabled,
	}
	repo.users = append(repo.users, u)
	return u
}

func TestRegister(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _, _ := newAuthService(t, repo, 5)

	user, err := svc.Register("alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Enabled)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	_, err = uuid.Parse(user.ID)
	assert.NoError(t, err)

	_, err = svc.Register("alice", "other@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Register("alice2", "alice@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_Success(t *testing.T) {
	repo := &fakeUserRepo{}
	alice := seedUser(t, repo, "alice", "alice@example.com", "correct-horse", true)
	svc, codec, _ := newAuthService(t, repo, 5)

	tok, expiresAt, err := svc.Login("alice", "correct-horse")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := codec.Decode(tok)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestLogin_ByEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "alice", "alice@example.com", "correct-horse", true)
	svc, _, _ := newAuthService(t, repo, 5)

	_, _, err := svc.Login("alice@example.com", "correct-horse")
	require.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "alice", "alice@example.com", "correct-horse", true)
	svc, _, _ := newAuthService(t, repo, 5)

	_, _, err := svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _, _ := newAuthService(t, repo, 5)

	// Same sentinel as wrong password; callers cannot probe accounts.
	_, _, err := svc.Login("nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "mallory", "m@example.com", "correct-horse", false)
	svc, _, _ := newAuthService(t, repo, 5)

	_, _, err := svc.Login("mallory", "correct-horse")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLogin_ThrottledAfterMaxAttempts(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "alice", "alice@example.com", "correct-horse", true)
	svc, _, alerts := newAuthService(t, repo, 3)

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login("alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The window is exhausted: even the correct password is refused.
	_, _, err := svc.Login("alice", "correct-horse")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, []string{"alice"}, alerts.blocked)

	// A different account is unaffected.
	seedUser(t, repo, "bob", "bob@example.com", "hunter2-hunter2", true)
	_, _, err = svc.Login("bob", "hunter2-hunter2")
	assert.NoError(t, err)
}

func TestLogin_ThrottleKeyIsCaseInsensitive(t *testing.T) {
	repo := &fakeUserRepo{}
	svc, _, _ := newAuthService(t, repo, 2)

	_, _, err := svc.Login("Alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("ALICE", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestLogin_SuccessResetsThrottle(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "alice", "alice@example.com", "correct-horse", true)
	svc, _, _ := newAuthService(t, repo, 3)

	_, _, err := svc.Login("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("alice", "correct-horse")
	require.NoError(t, err)

	// The successful login cleared the window, so the budget is full
	// again.
	for i := 0; i < 2; i++ {
		_, _, err = svc.Login("alice", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestResetThrottle_UnblocksKey(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "alice", "alice@example.com", "correct-horse", true)
	svc, _, _ := newAuthService(t, repo, 1)

	_, _, err := svc.Login("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("alice", "correct-horse")
	require.ErrorIs(t, err, ErrTooManyAttempts)

	svc.ResetThrottle("Alice")

	_, _, err = svc.Login("alice", "correct-horse")
	assert.NoError(t, err)
}

func TestLogin_RepositoryError(t *testing.T) {
	repo := &fakeUserRepo{err: errors.New("db down")}
	svc, _, _ := newAuthService(t, repo, 5)

	_, _, err := svc.Login("alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
