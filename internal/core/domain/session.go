package domain

import "errors"

// Token verification failures are split so callers can tell a client to
// refresh (expired) apart from one that must re-login (invalid).
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")

var ErrSessionNotFound = errors.New("session not found")

var ErrActivationExpired = errors.New("activation token has expired")
var ErrActivationInvalid = errors.New("invalid activation token")
var ErrActivationCodeMismatch = errors.New("invalid activation code")

// PendingUser is a registration that has not been persisted yet. It travels
// inside the signed activation token and nowhere else.
type PendingUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// Session is the cache-resident projection of a logged-in user. Its presence
// under the user's id is the sole proof of a valid outstanding login: the
// auth gate rejects any access token, however well signed, whose session
// entry is gone.
type Session struct {
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	IsVerified  bool        `json:"is_verified"`
	Courses     []CourseRef `json:"courses"`
	Avatar      Avatar      `json:"avatar,omitempty"`
	AccessToken string      `json:"access_token,omitempty"`
}

// NewSession projects a user into its cacheable session form. The password
// hash never crosses into the session payload.
func NewSession(u *User, accessToken string) *Session {
	return &Session{
		UserID:      u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		Courses:     u.Courses,
		Avatar:      u.Avatar,
		AccessToken: accessToken,
	}
}

// User rebuilds a minimal user view from the cached session, enough for
// token minting and request-scoped identity.
func (s *Session) User() *User {
	return &User{
		ID:         s.UserID,
		Name:       s.Name,
		Email:      s.Email,
		Role:       s.Role,
		IsVerified: s.IsVerified,
		Courses:    s.Courses,
		Avatar:     s.Avatar,
	}
}
