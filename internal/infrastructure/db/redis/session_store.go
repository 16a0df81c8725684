package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/learnly/course-platform/internal/core/domain"
)

// SessionStore keeps the latest session payload per user id.
// Key format: session:<user_id>
//
// Entries carry no TTL: the usable lifetime of a login is governed by the
// embedded token expiries, and the only evictions are explicit deletes on
// logout and account removal. A stale entry can therefore outlive its
// logical session if delete is never called.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put overwrites the session entry unconditionally. Last writer wins.
func (s *SessionStore) Put(ctx context.Context, userID string, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID), payload, 0).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get returns the session for userID, or domain.ErrSessionNotFound when no
// entry exists. Absence is the revocation signal for the auth gate.
func (s *SessionStore) Get(ctx context.Context, userID string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Delete removes the session entry. Deleting an absent key is not an error.
func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(userID string) string {
	return "session:" + userID
}
