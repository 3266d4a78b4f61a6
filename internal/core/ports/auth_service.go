package ports

import (
	"context"

	"github.com/cloudscope/console-api/internal/core/domain"
)

// AuthService handles credential checks and session issuance.
type AuthService interface {
	// Login validates the credentials, creates a session, persists it, and
	// returns the session together with its signed cookie token.
	Login(ctx context.Context, email, password string) (*domain.Session, string, error)
	// Restore parses a cookie token and loads the backing session.
	Restore(ctx context.Context, token string) (*domain.Session, error)
	// Logout clears the persisted session. It never fails.
	Logout(ctx context.Context, sessionID string)
	// Signup registers a new identity in the user directory.
	Signup(ctx context.Context, email, password string) (*domain.DirectoryUser, error)
}

// UserRepository is the user directory behind AUTH_MODE=directory.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.DirectoryUser, error)
	Create(ctx context.Context, user *domain.DirectoryUser) (*domain.DirectoryUser, error)
}
