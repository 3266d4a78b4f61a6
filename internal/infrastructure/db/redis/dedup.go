package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cloudscope/console-api/internal/core/domain"
)

const dedupTTL = time.Hour

// RequestDedup provides report-request idempotency backed by Redis.
// Key format: report:<account_id>:<start_key>:<end_key>
type RequestDedup struct {
	client *redis.Client
}

// NewRequestDedup creates a RequestDedup wrapping the given Redis client.
func NewRequestDedup(client *redis.Client) *RequestDedup {
	return &RequestDedup{client: client}
}

// Existing returns the report ID previously recorded for this account+range,
// or "" when the request is new.
func (d *RequestDedup) Existing(ctx context.Context, accountID string, start, end domain.Period) (string, error) {
	id, err := d.client.Get(ctx, d.key(accountID, start, end)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("dedup check: %w", err)
	}
	return id, nil
}

// Mark records the report generated for this account+range (expires after dedupTTL).
func (d *RequestDedup) Mark(ctx context.Context, accountID string, start, end domain.Period, reportID string) error {
	return d.client.Set(ctx, d.key(accountID, start, end), reportID, dedupTTL).Err()
}

func (d *RequestDedup) key(accountID string, start, end domain.Period) string {
	return fmt.Sprintf("report:%s:%s:%s", accountID, start.Key(), end.Key())
}
