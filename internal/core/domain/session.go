package domain

import "time"

// SessionScope selects how long a login survives outside the 24h ceiling.
type SessionScope string

const (
	// ScopePersistent keeps sessions resumable across process restarts
	// until they expire.
	ScopePersistent SessionScope = "persistent"
	// ScopeTab additionally requires a process-local marker, so a restart
	// (the server-side analogue of a new browser session) invalidates
	// previously stored sessions.
	ScopeTab SessionScope = "tab"
)

// ParseSessionScope maps a config string to a SessionScope, defaulting to
// persistent for unrecognised values.
func ParseSessionScope(s string) SessionScope {
	if s == string(ScopeTab) {
		return ScopeTab
	}
	return ScopePersistent
}

// Session is the persisted proof of a successful login.
type Session struct {
	User            User      `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// ValidAt reports whether the session is still live at t.
// A session whose expiry equals t is already expired.
func (s Session) ValidAt(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}

// NewSession builds a session for user expiring ttl after the user's login time.
func NewSession(user User, ttl time.Duration) Session {
	return Session{
		User:            user,
		IsAuthenticated: true,
		ExpiresAt:       user.LoginTime.Add(ttl),
	}
}
