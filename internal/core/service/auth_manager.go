package service

import (
	"context"
	"errors"
	"sync"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// AuthStatus is the coarse lifecycle state of the auth container.
type AuthStatus int

const (
	StatusUninitialized AuthStatus = iota
	StatusInitializing
	StatusAuthenticated
	StatusUnauthenticated
)

func (s AuthStatus) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "uninitialized"
	}
}

// AuthState is the observable snapshot of the container. After every
// transition IsAuthenticated == (User != nil) holds, and IsInitialized moves
// false→true exactly once.
type AuthState struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *domain.User `json:"user"`
	IsInitialized   bool         `json:"isInitialized"`
	IsLoading       bool         `json:"isLoading"`
	Err             string       `json:"error,omitempty"`
}

// AuthManager is the single source of truth for "is the operator logged in".
// Each operation runs pending → fulfilled|rejected under one mutex, so a
// login fired while a previous one is still in flight simply serializes and
// the last write wins.
type AuthManager struct {
	mu    sync.Mutex
	auth  ports.AuthService
	state AuthState
}

// NewAuthManager returns a manager in the Uninitialized state.
func NewAuthManager(auth ports.AuthService) *AuthManager {
	return &AuthManager{auth: auth}
}

// Snapshot returns a copy of the current state.
func (m *AuthManager) Snapshot() AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Status derives the container's lifecycle state from the snapshot.
func (m *AuthManager) Status() AuthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case !m.state.IsInitialized && !m.state.IsLoading:
		return StatusUninitialized
	case !m.state.IsInitialized:
		return StatusInitializing
	case m.state.IsAuthenticated:
		return StatusAuthenticated
	default:
		return StatusUnauthenticated
	}
}

// Initialize restores a prior session from the given cookie token, if any.
// It always ends with IsInitialized=true and IsLoading=false and never
// reports an error: every failure degrades to "no session". Calling it again
// after initialization is a no-op.
func (m *AuthManager) Initialize(ctx context.Context, token string) AuthState {
	m.mu.Lock()
	if m.state.IsInitialized {
		state := m.state
		m.mu.Unlock()
		return state
	}
	m.state.IsLoading = true
	m.mu.Unlock()

	var restored *domain.User
	if token != "" {
		if session, err := m.auth.Restore(ctx, token); err == nil {
			user := session.User
			restored = &user
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsInitialized = true
	m.state.IsLoading = false
	if restored != nil {
		m.state.IsAuthenticated = true
		m.state.User = restored
	} else {
		m.state.IsAuthenticated = false
		m.state.User = nil
	}
	return m.state
}

// Login authenticates and starts a new session, returning the signed cookie
// token on success. On failure the state stays unauthenticated with Err set
// to a human-readable message.
func (m *AuthManager) Login(ctx context.Context, email, password string) (string, error) {
	m.mu.Lock()
	m.state.IsLoading = true
	m.state.Err = ""
	m.mu.Unlock()

	session, token, err := m.auth.Login(ctx, email, password)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsLoading = false
	if err != nil {
		m.state.IsAuthenticated = false
		m.state.User = nil
		m.state.Err = loginErrorMessage(err)
		return "", err
	}
	user := session.User
	m.state.IsAuthenticated = true
	m.state.User = &user
	m.state.Err = ""
	return token, nil
}

// Logout clears the persisted session and resets the state. It never fails.
func (m *AuthManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.state.IsLoading = true
	sessionID := ""
	if m.state.User != nil {
		sessionID = m.state.User.SessionID
	}
	m.mu.Unlock()

	if sessionID != "" {
		m.auth.Logout(ctx, sessionID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsLoading = false
	m.state.IsAuthenticated = false
	m.state.User = nil
	m.state.Err = ""
}

func loginErrorMessage(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "Email and password are required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password"
	default:
		return "Login failed"
	}
}
