package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/learnly/course-platform/internal/core/ports"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// setAuthCookies installs both token cookies. MaxAge and Expires mirror the
// token's own expiry but are advisory: the server never trusts them, only
// the signed exp claim.
func setAuthCookies(c echo.Context, pair ports.TokenPair, secure bool) {
	c.SetCookie(authCookie(accessCookieName, pair.AccessToken, pair.AccessExpiresAt, secure))
	c.SetCookie(authCookie(refreshCookieName, pair.RefreshToken, pair.RefreshExpiresAt, secure))
}

// clearAuthCookies expires both token cookies immediately.
func clearAuthCookies(c echo.Context, secure bool) {
	expired := time.Unix(0, 0)
	c.SetCookie(authCookie(accessCookieName, "", expired, secure))
	c.SetCookie(authCookie(refreshCookieName, "", expired, secure))
}

func authCookie(name, value string, expires time.Time, secure bool) *http.Cookie {
	maxAge := int(time.Until(expires).Seconds())
	if value == "" {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}
