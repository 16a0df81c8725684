package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRoles enforces role-based access control after Auth has run.
// Pure and synchronous: the decision uses only the cached identity's role.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := Identity(c)
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
			}
			if _, ok := allowed[sess.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("role %s is not allowed to access this resource", sess.Role))
			}
			return next(c)
		}
	}
}
