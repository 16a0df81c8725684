package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/api/metrics"
	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/core/ports"
	"github.com/learnly/course-platform/internal/token"
)

const identityKey = "identity"

// Auth gates requests on a valid access token AND a live session entry.
// Token extraction order: accessToken cookie, then Authorization: Bearer.
//
// Signature validity alone is not enough: the session cache is the
// revocation check. Logout and account deletion remove the entry, so a
// still-unexpired token is rejected the moment its session is gone.
func Auth(issuer *token.Issuer, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("no_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized request")
			}

			claims, err := issuer.VerifyAccess(raw)
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.AuthRejectionsTotal.WithLabelValues("expired").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "access token expired")
				}
				metrics.AuthRejectionsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			sess, err := sessions.Get(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					metrics.AuthRejectionsTotal.WithLabelValues("no_session").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid user access or invalid token")
				}
				return err
			}

			c.Set(identityKey, sess)
			return next(c)
		}
	}
}

// Identity returns the authenticated session attached by Auth, or nil when
// the request never passed the gate.
func Identity(c echo.Context) *domain.Session {
	sess, _ := c.Get(identityKey).(*domain.Session)
	return sess
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
