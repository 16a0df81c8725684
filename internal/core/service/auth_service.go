package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnly/course-platform/internal/api/metrics"
	"github.com/learnly/course-platform/internal/core/domain"
	"github.com/learnly/course-platform/internal/core/ports"
	"github.com/learnly/course-platform/internal/token"
)

const minPasswordLength = 6

// AuthService implements the activation-gated registration, login, token
// rotation, and account management flows on top of the credential store and
// the session cache.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	issuer     *token.Issuer
	activation *token.ActivationService
	mailer     ports.Mailer
	logger     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	issuer *token.Issuer,
	activation *token.ActivationService,
	mailer ports.Mailer,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		issuer:     issuer,
		activation: activation,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register validates the pending registration, checks email uniqueness, and
// issues an activation token. The user record is NOT persisted here; it
// lives inside the signed token until Activate succeeds.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" || email == "" || input.Password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if !domain.ValidEmail(email) {
		return "", domain.ErrInvalidCredentials
	}
	if len(input.Password) < minPasswordLength {
		return "", domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	activationToken, code, err := s.activation.Issue(domain.PendingUser{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", err
	}

	mail := ports.Mail{
		To:      email,
		Subject: "Activate your account",
		Body:    fmt.Sprintf("Hello %s, your activation code is %s.", name, code),
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		return "", fmt.Errorf("send activation mail: %w", err)
	}
	metrics.MailEnqueuedTotal.WithLabelValues("activation").Inc()

	s.logger.Info().Str("email", email).Msg("registration pending activation")
	return activationToken, nil
}

// Activate verifies the activation token and code and persists the user.
// Email uniqueness is re-checked here: two activations for the same address
// can race, and the token itself is replayable until it expires.
func (s *AuthService) Activate(ctx context.Context, activationToken, code string) (*domain.User, error) {
	pending, err := s.activation.Verify(activationToken, code)
	if err != nil {
		metrics.ActivationsTotal.WithLabelValues(activationResult(err)).Inc()
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, pending.Email); err == nil {
		metrics.ActivationsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         domain.RoleUser,
		IsVerified:   true,
		Courses:      []domain.CourseRef{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.ActivationsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("account activated")
	return created, nil
}

// Login verifies credentials, mints both tokens, and installs the session
// entry that makes the access token usable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if !user.ComparePassword(password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

// SocialAuth logs in an identity already verified by an external provider,
// creating the account on first sight. No password is involved; accounts
// created here carry an unusable empty hash and are marked verified.
func (s *AuthService) SocialAuth(ctx context.Context, name, email string, avatar domain.Avatar) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !domain.ValidEmail(email) {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		now := time.Now().UTC()
		user, err = s.users.Create(ctx, &domain.User{
			Name:       strings.TrimSpace(name),
			Email:      email,
			Avatar:     avatar,
			Role:       domain.RoleUser,
			IsVerified: true,
			Courses:    []domain.CourseRef{},
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info().Str("user_id", user.ID).Msg("social account created")
	} else if err != nil {
		return nil, err
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return result, nil
}

// Logout removes the session entry, revoking both outstanding tokens at
// once. Deleting an absent entry is fine; logout never fails for that.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("user logged out")
	return nil
}

// Refresh rotates both tokens from a valid refresh token. The session entry
// is the rotation gate: logout deletes it, which makes the refresh token
// unusable even though its signature stays valid until expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	userID, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("invalid_token").Inc()
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			metrics.TokenRefreshesTotal.WithLabelValues("no_session").Inc()
			return nil, domain.ErrSessionNotFound
		}
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load session: %w", err)
	}

	result, err := s.startSession(ctx, sess.User())
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return result, nil
}

// GetUserByID reads through the session cache, falling back to the
// credential store and backfilling the cache on a miss.
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err == nil {
		return sess.User(), nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, userID, domain.NewSession(user, "")); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("session backfill failed")
	}
	return user, nil
}

// UpdateInfo changes the user's name and/or email and refreshes the cached
// session so request identities stay current.
func (s *AuthService) UpdateInfo(ctx context.Context, userID, name, email string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && email != user.Email {
		if !domain.ValidEmail(email) {
			return nil, domain.ErrInvalidCredentials
		}
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user.Email = email
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.refreshSession(ctx, user)
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || !user.ComparePassword(oldPassword) {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.refreshSession(ctx, user)
	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

// UpdateAvatar replaces the user's avatar reference.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID string, avatar domain.Avatar) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Avatar = avatar
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.refreshSession(ctx, user)
	return user, nil
}

// ListUsers returns every user record, admin-only at the transport layer.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

// UpdateRole changes a user's role and refreshes the cached session so the
// authorization gate sees the new role on the next request.
func (s *AuthService) UpdateRole(ctx context.Context, userID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.refreshSession(ctx, user)
	s.logger.Info().Str("user_id", userID).Str("role", role).Msg("role updated")
	return user, nil
}

// DeleteUser removes the account and evicts its session, terminating any
// outstanding login immediately.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("evict session: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

// startSession mints a fresh token pair and overwrites the session entry
// with the new access token merged in. Last writer wins: concurrent calls
// for the same user race, and the slower Put silently prevails.
func (s *AuthService) startSession(ctx context.Context, user *domain.User) (*ports.LoginResult, error) {
	access, accessExp, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.issuer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Put(ctx, user.ID, domain.NewSession(user, access)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &ports.LoginResult{
		User: user,
		Tokens: ports.TokenPair{
			AccessToken:      access,
			AccessExpiresAt:  accessExp,
			RefreshToken:     refresh,
			RefreshExpiresAt: refreshExp,
		},
	}, nil
}

// refreshSession rewrites the cached session after a profile mutation,
// preserving the live access token from the existing entry. A user without
// a session entry is simply not logged in; nothing to refresh.
func (s *AuthService) refreshSession(ctx context.Context, user *domain.User) {
	sess, err := s.sessions.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("session refresh read failed")
		}
		return
	}
	if err := s.sessions.Put(ctx, user.ID, domain.NewSession(user, sess.AccessToken)); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("session refresh write failed")
	}
}

func activationResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrActivationExpired):
		return "expired"
	case errors.Is(err, domain.ErrActivationCodeMismatch):
		return "code_mismatch"
	default:
		return "invalid"
	}
}
