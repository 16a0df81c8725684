package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/core/domain"
)

func runRBAC(t *testing.T, role string, mw echo.MiddlewareFunc) error {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users", nil), httptest.NewRecorder())
	if role != "" {
		c.Set(identityKey, &domain.Session{UserID: "u1", Role: role})
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	if err := runRBAC(t, domain.RoleAdmin, RequireRoles(domain.RoleAdmin)); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
}

func TestRequireRoles_RejectsOtherRole(t *testing.T) {
	err := runRBAC(t, domain.RoleUser, RequireRoles(domain.RoleAdmin))
	he := httpError(t, err)
	if he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", he.Code)
	}
	if he.Message != "role user is not allowed to access this resource" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestRequireRoles_MultipleRoles(t *testing.T) {
	mw := RequireRoles(domain.RoleUser, domain.RoleAdmin)
	if err := runRBAC(t, domain.RoleUser, mw); err != nil {
		t.Fatalf("user rejected: %v", err)
	}
	if err := runRBAC(t, domain.RoleAdmin, mw); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
}

func TestRequireRoles_MissingIdentity(t *testing.T) {
	err := runRBAC(t, "", RequireRoles(domain.RoleAdmin))
	he := httpError(t, err)
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}
