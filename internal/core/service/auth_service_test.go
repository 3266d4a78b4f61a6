package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudscope/console-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub user directory
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byEmail map[string]*domain.DirectoryUser
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.DirectoryUser)}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.DirectoryUser, error) {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.DirectoryUser) (*domain.DirectoryUser, error) {
	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *u
	r.byEmail[key] = &clone
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const testSecret = "test-secret"

func newOpenAuthService() (*AuthService, *stubScope) {
	persistent := newStubScope()
	store := NewDualSessionStore(persistent, newStubScope(), domain.ScopePersistent, DefaultSessionTTL, discardLogger)
	return NewAuthService(store, newStubUserRepo(), AuthModeOpen, testSecret, DefaultSessionTTL, discardLogger), persistent
}

// ---------------------------------------------------------------------------
// Login / Restore / Logout
// ---------------------------------------------------------------------------

func TestAuthService_Login_OpenModeAcceptsAnyCredentials(t *testing.T) {
	svc, _ := newOpenAuthService()

	session, token, err := svc.Login(context.Background(), "ops@example.com", "whatever")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("expected a signed token")
	}
	if session.User.SessionID == "" {
		t.Error("expected a generated session ID")
	}
	if !session.IsAuthenticated {
		t.Error("session must be authenticated")
	}
	if got := session.ExpiresAt.Sub(session.User.LoginTime); got != DefaultSessionTTL {
		t.Errorf("expiry = login + %v, want %v", got, DefaultSessionTTL)
	}
}

func TestAuthService_Login_EmptyCredentials(t *testing.T) {
	svc, _ := newOpenAuthService()

	_, _, err := svc.Login(context.Background(), "", "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["email"] != "This field is required" {
		t.Errorf("email error: %q", ve.Errors["email"])
	}
	if ve.Errors["password"] != "This field is required" {
		t.Errorf("password error: %q", ve.Errors["password"])
	}
}

func TestAuthService_Login_MalformedEmail(t *testing.T) {
	svc, _ := newOpenAuthService()

	_, _, err := svc.Login(context.Background(), "not-an-email", "pw")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["email"] != "Please enter a valid email address" {
		t.Errorf("email error: %q", ve.Errors["email"])
	}
}

func TestAuthService_Restore_RoundTrip(t *testing.T) {
	svc, _ := newOpenAuthService()
	ctx := context.Background()

	session, token, err := svc.Login(ctx, "ops@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	restored, err := svc.Restore(ctx, token)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.User.SessionID != session.User.SessionID {
		t.Errorf("restored wrong session: %s vs %s", restored.User.SessionID, session.User.SessionID)
	}
	if restored.User.Email != "ops@example.com" {
		t.Errorf("restored wrong user: %s", restored.User.Email)
	}
}

func TestAuthService_Restore_GarbageToken(t *testing.T) {
	svc, _ := newOpenAuthService()

	if _, err := svc.Restore(context.Background(), "not.a.jwt"); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestAuthService_Restore_WrongSecret(t *testing.T) {
	svc, _ := newOpenAuthService()
	ctx := context.Background()

	otherStore := NewDualSessionStore(newStubScope(), newStubScope(), domain.ScopePersistent, DefaultSessionTTL, discardLogger)
	other := NewAuthService(otherStore, newStubUserRepo(), AuthModeOpen, "other-secret", DefaultSessionTTL, discardLogger)
	_, token, err := other.Login(ctx, "ops@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Restore(ctx, token); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("foreign token should not restore, got %v", err)
	}
}

func TestAuthService_Restore_AfterExpiry(t *testing.T) {
	login := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	now := login
	clock := func() time.Time { return now }

	store := NewDualSessionStore(newStubScope(), newStubScope(), domain.ScopePersistent, DefaultSessionTTL, discardLogger).WithClock(clock)
	svc := NewAuthService(store, newStubUserRepo(), AuthModeOpen, testSecret, DefaultSessionTTL, discardLogger).WithClock(clock)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, "ops@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	now = login.Add(DefaultSessionTTL + time.Minute)
	if _, err := svc.Restore(ctx, token); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("expected ErrNoSession after 24h, got %v", err)
	}
}

func TestAuthService_Logout_ClearsSession(t *testing.T) {
	svc, _ := newOpenAuthService()
	ctx := context.Background()

	session, token, err := svc.Login(ctx, "ops@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.Logout(ctx, session.User.SessionID)

	if _, err := svc.Restore(ctx, token); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("expected ErrNoSession after logout, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Directory mode
// ---------------------------------------------------------------------------

func newDirectoryAuthService() *AuthService {
	store := NewDualSessionStore(newStubScope(), newStubScope(), domain.ScopePersistent, DefaultSessionTTL, discardLogger)
	return NewAuthService(store, newStubUserRepo(), AuthModeDirectory, testSecret, DefaultSessionTTL, discardLogger)
}

func TestAuthService_DirectoryMode_SignupThenLogin(t *testing.T) {
	svc := newDirectoryAuthService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, "ops@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatal("password stored in cleartext")
	}

	if _, _, err := svc.Login(ctx, "ops@example.com", "correct-horse"); err != nil {
		t.Errorf("login with correct password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "ops@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := newDirectoryAuthService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "ops@example.com", "long-enough"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "ops@example.com", "long-enough"); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Signup_ShortPassword(t *testing.T) {
	svc := newDirectoryAuthService()

	_, err := svc.Signup(context.Background(), "ops@example.com", "short")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["password"] != "Must be at least 8 characters" {
		t.Errorf("password error: %q", ve.Errors["password"])
	}
}
