package ports

import (
	"context"
	"time"

	"github.com/learnly/course-platform/internal/core/domain"
)

// TokenPair carries a freshly minted access/refresh pair. The ExpiresAt
// values feed cookie attributes only; the authoritative expiry is the exp
// claim embedded in each token.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// RegisterInput is the pending registration submitted before activation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is what every token-issuing flow returns: the sanitized user
// plus the pair to be set as cookies.
type LoginResult struct {
	User   *domain.User
	Tokens TokenPair
}

type AuthService interface {
	// Register validates the pending user and returns a signed activation
	// token; the matching 4-digit code is delivered out of band by mail.
	// No user record is persisted until activation.
	Register(ctx context.Context, input RegisterInput) (activationToken string, err error)

	// Activate verifies an activation token and code and persists the user.
	Activate(ctx context.Context, activationToken, code string) (*domain.User, error)

	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// SocialAuth logs in an externally authenticated identity, creating the
	// account on first sight. Accounts created this way are verified.
	SocialAuth(ctx context.Context, name, email string, avatar domain.Avatar) (*LoginResult, error)

	Logout(ctx context.Context, userID string) error

	// Refresh performs a full two-token rotation from a refresh token and
	// overwrites the session entry with the new access token merged in.
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)

	// GetUserByID reads through the session cache, falling back to the
	// credential store and backfilling the cache on a miss.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	UpdateInfo(ctx context.Context, userID, name, email string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateAvatar(ctx context.Context, userID string, avatar domain.Avatar) (*domain.User, error)

	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, userID, role string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
}
