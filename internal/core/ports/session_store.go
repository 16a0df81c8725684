package ports

import (
	"context"

	"github.com/learnly/course-platform/internal/core/domain"
)

// SessionStore is the key-value cache of live sessions, keyed by user id.
//
// Put overwrites unconditionally (last writer wins; concurrent logins and
// refreshes for the same user race by design). Get returning
// domain.ErrSessionNotFound is the revocation signal: a missing entry means
// an otherwise valid access token must be rejected. Delete is idempotent.
type SessionStore interface {
	Put(ctx context.Context, userID string, session *domain.Session) error
	Get(ctx context.Context, userID string) (*domain.Session, error)
	Delete(ctx context.Context, userID string) error
}
