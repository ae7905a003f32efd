package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
)

// AppTokenStore persists issued app tokens so the API-auth machinery can
// later resolve them. Keys expire with the token.
type AppTokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewAppTokenStore creates a new Redis-based app token store.
func NewAppTokenStore(client redis.UniversalClient) *AppTokenStore {
	return &AppTokenStore{client: client, prefix: "apptoken:"}
}

// Save persists the app token with a TTL derived from its expiry.
func (s *AppTokenStore) Save(ctx context.Context, token federation.AppToken) error {
	if token.ID == "" {
		return errors.New("token ID cannot be empty")
	}
	if token.UID == "" {
		return errors.New("token uid cannot be empty")
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal app token: %w", err)
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return errors.New("app token is expired")
	}

	return s.client.Set(ctx, s.prefix+token.ID, data, ttl).Err()
}
