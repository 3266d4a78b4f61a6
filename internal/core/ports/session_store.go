package ports

import (
	"context"
	"time"

	"github.com/cloudscope/console-api/internal/core/domain"
)

// SessionStore persists session records keyed by session ID.
type SessionStore interface {
	// Save writes the session to every configured storage scope.
	Save(ctx context.Context, session domain.Session) error
	// Load returns the live session for sessionID. Absent or malformed
	// records yield domain.ErrNoSession, expired ones
	// domain.ErrSessionExpired; the stored record is cleared either way
	// and Load never propagates a parse failure.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)
	// Clear removes the record from all scopes. It is idempotent and
	// never fails the caller: storage errors are logged and swallowed.
	Clear(ctx context.Context, sessionID string)
}

// SessionScope is one raw storage area for serialized session records: the
// process-local tab scope or the persistent scope (Redis in external mode).
type SessionScope interface {
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Get returns domain.ErrNoSession when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
