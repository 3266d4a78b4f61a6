package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

const sessionKeyPrefix = "auth_session:"

// DefaultSessionTTL is the absolute expiry ceiling for a login.
const DefaultSessionTTL = 24 * time.Hour

// DualSessionStore persists sessions to two storage scopes: the persistent
// scope is authoritative for the record itself, the tab scope mirrors it and
// acts as the "same browser session" marker. Which of the two gates
// resumability is decided by the configured SessionScope policy:
//
//   - persistent: a record in the persistent scope is enough, so logins
//     survive restarts until they expire.
//   - tab: Load additionally requires the tab-scope mirror. The tab scope is
//     process-local, so after a restart the marker is gone and the stale
//     persistent record is cleared instead of resumed.
type DualSessionStore struct {
	persistent ports.SessionScope
	tab        ports.SessionScope
	scope      domain.SessionScope
	ttl        time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewDualSessionStore composes the two scopes under the given policy.
func NewDualSessionStore(persistent, tab ports.SessionScope, scope domain.SessionScope, ttl time.Duration, log zerolog.Logger) *DualSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &DualSessionStore{
		persistent: persistent,
		tab:        tab,
		scope:      scope,
		ttl:        ttl,
		now:        time.Now,
		log:        log,
	}
}

// WithClock overrides the store's clock. Intended for tests.
func (s *DualSessionStore) WithClock(now func() time.Time) *DualSessionStore {
	s.now = now
	return s
}

// TTL returns the configured session lifetime.
func (s *DualSessionStore) TTL() time.Duration {
	return s.ttl
}

// Scope returns the configured resumability policy.
func (s *DualSessionStore) Scope() domain.SessionScope {
	return s.scope
}

// Save writes the session to both scopes. The persistent write must succeed;
// a failed mirror write is logged and ignored.
func (s *DualSessionStore) Save(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	key := sessionKey(session.User.SessionID)
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		ttl = s.ttl
	}

	if err := s.persistent.Put(ctx, key, data, ttl); err != nil {
		return err
	}
	if err := s.tab.Put(ctx, key, data, ttl); err != nil {
		s.log.Warn().Err(err).Str("session_id", session.User.SessionID).Msg("tab scope write failed")
	}
	return nil
}

// Load returns the live session for sessionID, enforcing the scope policy and
// the absolute expiry. Absent or malformed records yield ErrNoSession, an
// expired one ErrSessionExpired; either way the record is cleared so the next
// Load starts clean.
func (s *DualSessionStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := sessionKey(sessionID)

	if s.scope == domain.ScopeTab {
		if _, err := s.tab.Get(ctx, key); err != nil {
			// No tab marker: new browser session. Drop the stale
			// persistent record rather than resuming it.
			s.Clear(ctx, sessionID)
			return nil, domain.ErrNoSession
		}
	}

	data, err := s.persistent.Get(ctx, key)
	if err != nil {
		return nil, domain.ErrNoSession
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("malformed session record, clearing")
		s.Clear(ctx, sessionID)
		return nil, domain.ErrNoSession
	}

	if !session.ValidAt(s.now()) {
		s.Clear(ctx, sessionID)
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}

// Clear removes the record from both scopes. Idempotent; storage failures are
// logged, never propagated.
func (s *DualSessionStore) Clear(ctx context.Context, sessionID string) {
	key := sessionKey(sessionID)
	if err := s.persistent.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear persistent session")
	}
	if err := s.tab.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear tab session")
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

var _ ports.SessionStore = (*DualSessionStore)(nil)
