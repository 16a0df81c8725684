package domain

import (
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailExists = errors.New("user with email already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")
var ErrForbidden = errors.New("access forbidden")

// ValidEmail reports whether s looks like a well-formed email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidRole reports whether r is one of the accepted role strings.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// Avatar is a reference to an externally stored profile image.
type Avatar struct {
	PublicID string `json:"public_id,omitempty" bson:"public_id,omitempty"`
	URL      string `json:"url,omitempty" bson:"url,omitempty"`
}

// CourseRef links a user to a purchased course.
type CourseRef struct {
	CourseID string `json:"course_id" bson:"course_id"`
}

// User models an account on the platform. The password is only ever held as
// a bcrypt hash; the json tag keeps it out of every serialized form,
// including the session cache payload.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Avatar       Avatar      `json:"avatar,omitempty"`
	Role         string      `json:"role"`
	IsVerified   bool        `json:"is_verified"`
	Courses      []CourseRef `json:"courses"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ComparePassword checks a plaintext password against the stored hash.
func (u *User) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// HasCourse reports whether the user already purchased the given course.
func (u *User) HasCourse(courseID string) bool {
	for _, ref := range u.Courses {
		if ref.CourseID == courseID {
			return true
		}
	}
	return false
}
