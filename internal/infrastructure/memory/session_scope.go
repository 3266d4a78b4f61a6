// Package memory provides the in-memory storage backends: the tab-scoped
// session area and the mock-data repositories used when the service runs
// without external stores.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

type scopeEntry struct {
	data      []byte
	expiresAt time.Time // zero means no TTL
}

// SessionScope is a process-local storage area for serialized sessions. Its
// contents vanish on restart, which is what makes it suitable as the tab
// scope: a fresh process has no marker and prior sessions are not resumable.
type SessionScope struct {
	mu      sync.RWMutex
	entries map[string]scopeEntry
	now     func() time.Time
}

// NewSessionScope returns an empty in-memory scope.
func NewSessionScope() *SessionScope {
	return &SessionScope{entries: make(map[string]scopeEntry), now: time.Now}
}

// WithClock overrides the scope's clock. Intended for tests.
func (s *SessionScope) WithClock(now func() time.Time) *SessionScope {
	s.now = now
	return s
}

func (s *SessionScope) Put(_ context.Context, key string, data []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := scopeEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *SessionScope) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNoSession
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, domain.ErrNoSession
	}
	return entry.data, nil
}

func (s *SessionScope) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

var _ ports.SessionScope = (*SessionScope)(nil)
