package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// SessionScope is the persistent session storage area backed by Redis. The
// per-key TTL doubles as the absolute expiry ceiling, so records disappear on
// their own even if nobody loads them again.
type SessionScope struct {
	client *redis.Client
}

// NewSessionScope wraps an established Redis client.
func NewSessionScope(client *redis.Client) *SessionScope {
	return &SessionScope{client: client}
}

func (s *SessionScope) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (s *SessionScope) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoSession
		}
		return nil, fmt.Errorf("session get: %w", err)
	}
	return data, nil
}

func (s *SessionScope) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

var _ ports.SessionScope = (*SessionScope)(nil)
