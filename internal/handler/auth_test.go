package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"studylog/internal/models"
	"studylog/internal/service"
)

type fakeAuthService struct {
	loginErr    error
	registerErr error
}

func (f *fakeAuthService) Register(username, email, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{ID: "id", Username: username}, nil
}

func (f *fakeAuthService) Login(login, password string) (string, time.Time, error) {
	if f.loginErr != nil {
		return "", time.Time{}, f.loginErr
	}
	return "signed.jwt.token", time.Now().Add(time.Hour), nil
}

func (f *fakeAuthService) ResetThrottle(key string) {}
func (f *fakeAuthService) ClearThrottle()           {}

func loginRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(svc, zap.NewNop())
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/register", h.Register)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// The login endpoint distinguishes exactly three failure causes:
// malformed input, bad credentials, throttled.
func TestLogin_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
	}{
		{"success", `{"login":"alice","password":"pw"}`, nil, http.StatusOK},
		{"malformed json", `{"login":`, nil, http.StatusBadRequest},
		{"missing fields", `{"login":"alice"}`, nil, http.StatusBadRequest},
		{"bad credentials", `{"login":"alice","password":"pw"}`, service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", `{"login":"alice","password":"pw"}`, service.ErrUserDisabled, http.StatusUnauthorized},
		{"throttled", `{"login":"alice","password":"pw"}`, service.ErrTooManyAttempts, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := loginRouter(&fakeAuthService{loginErr: tc.loginErr})
			w := postJSON(r, "/api/auth/login", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestLogin_DisabledAccountLooksLikeBadCredentials(t *testing.T) {
	r1 := loginRouter(&fakeAuthService{loginErr: service.ErrInvalidCredentials})
	r2 := loginRouter(&fakeAuthService{loginErr: service.ErrUserDisabled})
	body := `{"login":"alice","password":"pw"}`

	w1 := postJSON(r1, "/api/auth/login", body)
	w2 := postJSON(r2, "/api/auth/login", body)

	assert.Equal(t, w1.Code, w2.Code)
	assert.Equal(t, w1.Body.String(), w2.Body.String())
}

func TestLogin_SuccessBody(t *testing.T) {
	r := loginRouter(&fakeAuthService{})
	w := postJSON(r, "/api/auth/login", `{"login":"alice","password":"pw"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"signed.jwt.token"`)
	assert.Contains(t, w.Body.String(), `"token_type":"Bearer"`)
}

func TestRegister_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"created", `{"username":"alice","email":"a@example.com","password":"longenough"}`, nil, http.StatusCreated},
		{"invalid email", `{"username":"alice","email":"nope","password":"longenough"}`, nil, http.StatusBadRequest},
		{"short password", `{"username":"alice","email":"a@example.com","password":"short"}`, nil, http.StatusBadRequest},
		{"duplicate", `{"username":"alice","email":"a@example.com","password":"longenough"}`, service.ErrUserAlreadyExists, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := loginRouter(&fakeAuthService{registerErr: tc.err})
			w := postJSON(r, "/api/auth/register", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
