package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/token"
)

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Put(_ context.Context, userID string, sess *domain.Session) error {
	s.sessions[userID] = sess
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, userID string) (*domain.Session, error) {
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubSessionStore) Delete(_ context.Context, userID string) error {
	delete(s.sessions, userID)
	return nil
}

func testIssuer(accessExpiry time.Duration) *token.Issuer {
	return token.NewIssuer(token.Config{
		AccessSecret:  "gate-access-secret",
		AccessExpiry:  accessExpiry,
		RefreshSecret: "gate-refresh-secret",
		RefreshExpiry: 20 * time.Minute,
	})
}

func gateUser() *domain.User {
	return &domain.User{
		ID:         "u1",
		Name:       "Alice",
		Email:      "alice@example.com",
		Role:       domain.RoleUser,
		IsVerified: true,
	}
}

// runGate sends a request through Auth into a handler that echoes the
// attached identity's user id.
func runGate(t *testing.T, mw echo.MiddlewareFunc, prepare func(*http.Request)) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		sess := Identity(c)
		if sess == nil {
			t.Fatal("handler reached without identity")
		}
		return c.String(http.StatusOK, sess.UserID)
	})
	return rec, handler(c)
}

func httpError(t *testing.T, err error) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he
}

func TestAuth_CookieTokenWithSession(t *testing.T) {
	issuer := testIssuer(5 * time.Minute)
	sessions := newStubSessionStore()
	user := gateUser()

	access, _, err := issuer.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	sessions.sessions[user.ID] = domain.NewSession(user, access)

	rec, err := runGate(t, Auth(issuer, sessions), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	})
	if err != nil {
		t.Fatalf("gate rejected valid request: %v", err)
	}
	if rec.Body.String() != user.ID {
		t.Fatalf("wrong identity: %q", rec.Body.String())
	}
}

func TestAuth_BearerHeaderFallback(t *testing.T) {
	issuer := testIssuer(5 * time.Minute)
	sessions := newStubSessionStore()
	user := gateUser()

	access, _, err := issuer.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	sessions.sessions[user.ID] = domain.NewSession(user, access)

	_, err = runGate(t, Auth(issuer, sessions), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+access)
	})
	if err != nil {
		t.Fatalf("bearer token rejected: %v", err)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	_, err := runGate(t, Auth(testIssuer(5*time.Minute), newStubSessionStore()), nil)
	he := httpError(t, err)
	if he.Code != http.StatusUnauthorized || he.Message != "unauthorized request" {
		t.Fatalf("unexpected error: %v", he)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	expiredIssuer := testIssuer(-time.Minute)
	user := gateUser()
	access, _, err := expiredIssuer.IssueAccessToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = runGate(t, Auth(testIssuer(5*time.Minute), newStubSessionStore()), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	})
	he := httpError(t, err)
	if he.Code != http.StatusUnauthorized || he.Message != "access token expired" {
		t.Fatalf("unexpected error: %v", he)
	}
}

func TestAuth_GarbageToken(t *testing.T) {
	_, err := runGate(t, Auth(testIssuer(5*time.Minute), newStubSessionStore()), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "not-a-jwt"})
	})
	he := httpError(t, err)
	if he.Code != http.StatusUnauthorized || he.Message != "invalid access token" {
		t.Fatalf("unexpected error: %v", he)
	}
}

func TestAuth_ValidTokenWithoutSession(t *testing.T) {
	// a cryptographically valid token is useless once the session entry is
	// gone: the cache is the revocation list
	issuer := testIssuer(5 * time.Minute)
	access, _, err := issuer.IssueAccessToken(gateUser())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = runGate(t, Auth(issuer, newStubSessionStore()), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: access})
	})
	he := httpError(t, err)
	if he.Code != http.StatusUnauthorized || he.Message != "invalid user access or invalid token" {
		t.Fatalf("unexpected error: %v", he)
	}
}

func TestIdentity_NilWithoutGate(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if Identity(c) != nil {
		t.Fatal("expected nil identity on an ungated context")
	}
}
