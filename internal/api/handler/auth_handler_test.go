package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/core/ports"
)

// stubAuthService lets each test wire only the methods it exercises.
type stubAuthService struct {
	registerFn   func(ctx context.Context, input ports.RegisterInput) (string, error)
	activateFn   func(ctx context.Context, activationToken, code string) (*domain.User, error)
	loginFn      func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	socialAuthFn func(ctx context.Context, name, email string, avatar domain.Avatar) (*ports.LoginResult, error)
	logoutFn     func(ctx context.Context, userID string) error
	refreshFn    func(ctx context.Context, refreshToken string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Activate(ctx context.Context, activationToken, code string) (*domain.User, error) {
	return s.activateFn(ctx, activationToken, code)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) SocialAuth(ctx context.Context, name, email string, avatar domain.Avatar) (*ports.LoginResult, error) {
	return s.socialAuthFn(ctx, name, email, avatar)
}

func (s *stubAuthService) Logout(ctx context.Context, userID string) error {
	return s.logoutFn(ctx, userID)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) GetUserByID(context.Context, string) (*domain.User, error) {
	return nil, errors.New("not wired")
}

func (s *stubAuthService) UpdateInfo(context.Context, string, string, string) (*domain.User, error) {
	return nil, errors.New("not wired")
}

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error {
	return errors.New("not wired")
}

func (s *stubAuthService) UpdateAvatar(context.Context, string, domain.Avatar) (*domain.User, error) {
	return nil, errors.New("not wired")
}

func (s *stubAuthService) ListUsers(context.Context) ([]*domain.User, error) {
	return nil, errors.New("not wired")
}

func (s *stubAuthService) UpdateRole(context.Context, string, string) (*domain.User, error) {
	return nil, errors.New("not wired")
}

func (s *stubAuthService) DeleteUser(context.Context, string) error {
	return errors.New("not wired")
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func newTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sampleLoginResult() *ports.LoginResult {
	now := time.Now()
	return &ports.LoginResult{
		User: &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser},
		Tokens: ports.TokenPair{
			AccessToken:      "access-token",
			AccessExpiresAt:  now.Add(5 * time.Minute),
			RefreshToken:     "refresh-token",
			RefreshExpiresAt: now.Add(20 * time.Minute),
		},
	}
}

func cookieByName(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestAuthHandler_Register(t *testing.T) {
	svc := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (string, error) {
			if input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return "activation-token", nil
		},
	}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/users/register",
		`{"name":"Alice","email":"alice@example.com","password":"s3cret1"}`))
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.ActivationToken != "activation-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(resp.Message, "alice@example.com") {
		t.Fatalf("message should name the mailbox: %q", resp.Message)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newTestContext(jsonRequest(http.MethodPost, "/api/users/register",
		`{"name":"Alice","email":"not-an-email","password":"s3cret1"}`))
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Activate(t *testing.T) {
	svc := &stubAuthService{
		activateFn: func(_ context.Context, activationToken, code string) (*domain.User, error) {
			if activationToken != "activation-token" || code != "1234" {
				t.Fatalf("unexpected args: %s %s", activationToken, code)
			}
			return &domain.User{ID: "u1", Email: "alice@example.com", IsVerified: true}, nil
		},
	}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/users/activate",
		`{"activation_token":"activation-token","activation_code":"1234"}`))
	if err := h.Activate(c); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Activate_CodeLength(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newTestContext(jsonRequest(http.MethodPost, "/api/users/activate",
		`{"activation_token":"activation-token","activation_code":"123"}`))
	err := h.Activate(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a 3-digit code, got %v", err)
	}
}

func TestAuthHandler_Login_SetsBothCookies(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			return sampleLoginResult(), nil
		},
	}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"s3cret1"}`))
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	access := cookieByName(t, rec, accessCookieName)
	if access.Value != "access-token" || !access.HttpOnly || access.Secure {
		t.Fatalf("unexpected access cookie: %+v", access)
	}
	refresh := cookieByName(t, rec, refreshCookieName)
	if refresh.Value != "refresh-token" || refresh.MaxAge <= 0 {
		t.Fatalf("unexpected refresh cookie: %+v", refresh)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestAuthHandler_Login_SecureCookiesInProduction(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return sampleLoginResult(), nil
		},
	}
	h := NewAuthHandler(svc, true)

	c, rec := newTestContext(jsonRequest(http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"s3cret1"}`))
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !cookieByName(t, rec, accessCookieName).Secure {
		t.Fatal("access cookie must be Secure in production")
	}
}

func TestAuthHandler_Login_PropagatesServiceError(t *testing.T) {
	svc := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc, false)

	c, _ := newTestContext(jsonRequest(http.MethodPost, "/api/users/login",
		`{"email":"alice@example.com","password":"wrong"}`))
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected sentinel to flow to the error handler, got %v", err)
	}
}

func TestAuthHandler_Logout_ExpiresCookies(t *testing.T) {
	var loggedOut string
	svc := &stubAuthService{
		logoutFn: func(_ context.Context, userID string) error {
			loggedOut = userID
			return nil
		},
	}
	h := NewAuthHandler(svc, false)

	c, rec := newTestContext(httptest.NewRequest(http.MethodPost, "/api/users/logout", nil))
	c.Set("identity", &domain.Session{UserID: "u1", Role: domain.RoleUser})

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if loggedOut != "u1" {
		t.Fatalf("wrong user logged out: %q", loggedOut)
	}
	for _, name := range []string{accessCookieName, refreshCookieName} {
		cookie := cookieByName(t, rec, name)
		if cookie.Value != "" || cookie.MaxAge != -1 {
			t.Fatalf("cookie %s not expired: %+v", name, cookie)
		}
	}
}

func TestAuthHandler_Logout_WithoutIdentity(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newTestContext(httptest.NewRequest(http.MethodPost, "/api/users/logout", nil))
	err := h.Logout(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (*ports.LoginResult, error) {
			if refreshToken != "refresh-token" {
				t.Fatalf("unexpected token: %q", refreshToken)
			}
			return sampleLoginResult(), nil
		},
	}
	h := NewAuthHandler(svc, false)

	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "refresh-token"})
	c, rec := newTestContext(req)

	if err := h.Refresh(c); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookieByName(t, rec, accessCookieName)
	cookieByName(t, rec, refreshCookieName)

	var resp refreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.AccessToken != "access-token" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Refresh_MissingCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, _ := newTestContext(httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil))
	err := h.Refresh(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Refresh_InvalidTokenIsBadRequest(t *testing.T) {
	svc := &stubAuthService{
		refreshFn: func(context.Context, string) (*ports.LoginResult, error) {
			return nil, domain.ErrTokenExpired
		},
	}
	h := NewAuthHandler(svc, false)

	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "stale"})
	c, _ := newTestContext(req)

	err := h.Refresh(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on the refresh path, got %v", err)
	}
	if he.Message != "could not refresh the token" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}
