package redis

// Package redis provides Redis-based stores for sessions and app tokens.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
)

// SessionStore is a Redis-based session store for production use.
// It handles TTL semantics automatically based on session ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{client: client, prefix: "session:"}
}

// Save persists the session with a TTL derived from its expiry.
func (s *SessionStore) Save(ctx context.Context, sess federation.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if sess.UID == "" {
		return errors.New("session uid cannot be empty")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	return s.client.Set(ctx, s.prefix+sess.ID, data, ttl).Err()
}

// Get retrieves a session by ID. Missing or expired sessions return
// ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (federation.Session, error) {
	if id == "" {
		return federation.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return federation.Session{}, ErrNotFound
		}
		return federation.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess federation.Session
	if unmarshalErr := json.Unmarshal([]byte(data), &sess); unmarshalErr != nil {
		return federation.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Redis TTL should have evicted it already, but double-check the expiry.
	if sess.Expired() {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return federation.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return federation.Session{}, ErrNotFound
	}

	return sess, nil
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+id).Err()
}

type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

// ErrNotFound is returned when a session is not found.
var ErrNotFound error = notFoundError{}
