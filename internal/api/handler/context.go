package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/api/middleware"
	"github.com/learnly/course-platform/internal/core/domain"
)

// ctxIdentity extracts the session identity injected by the Auth middleware.
// A missing identity means the gate never ran for this request, so fail with
// 401 before any service call.
func ctxIdentity(c echo.Context) (*domain.Session, error) {
	sess := middleware.Identity(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return sess, nil
}
