package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
	"github.com/cloudscope/console-api/internal/core/validation"
)

// AuthMode selects how login credentials are checked.
type AuthMode string

const (
	// AuthModeOpen accepts any non-empty credentials (the console's demo
	// behavior).
	AuthModeOpen AuthMode = "open"
	// AuthModeDirectory verifies the password against the user directory.
	AuthModeDirectory AuthMode = "directory"
)

// ParseAuthMode maps a config string to an AuthMode, defaulting to open.
func ParseAuthMode(s string) AuthMode {
	if s == string(AuthModeDirectory) {
		return AuthModeDirectory
	}
	return AuthModeOpen
}

// AuthService implements login, logout, session restore, and signup.
type AuthService struct {
	store     ports.SessionStore
	users     ports.UserRepository
	mode      AuthMode
	jwtSecret string
	ttl       time.Duration
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger
}

func NewAuthService(store ports.SessionStore, users ports.UserRepository, mode AuthMode, jwtSecret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		store:     store,
		users:     users,
		mode:      mode,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
		log:       log,
	}
}

// WithClock overrides the service's clock. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login validates the credentials, creates a fresh session, persists it, and
// returns the session with its signed cookie token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, string, error) {
	result := validation.Validate(validation.LoginForm{Email: email, Password: password}, validation.LoginConfig())
	if !result.IsValid {
		return nil, "", domain.NewValidationError(result.Errors)
	}

	if s.mode == AuthModeDirectory {
		user, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, "", domain.ErrInvalidCredentials
			}
			return nil, "", err
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, "", domain.ErrInvalidCredentials
		}
	}

	user := domain.User{
		Email:     email,
		SessionID: s.newID(),
		LoginTime: s.now().UTC(),
	}
	session := domain.NewSession(user, s.ttl)

	if err := s.store.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("email", email).Str("session_id", user.SessionID).Msg("user logged in")
	return &session, token, nil
}

// Restore parses the cookie token and loads the backing session. A bad token
// degrades to ErrNoSession; a dead stored record surfaces the store's
// ErrNoSession or ErrSessionExpired.
func (s *AuthService) Restore(ctx context.Context, token string) (*domain.Session, error) {
	sessionID, err := s.parseToken(token)
	if err != nil {
		return nil, domain.ErrNoSession
	}
	return s.store.Load(ctx, sessionID)
}

// Logout clears the persisted session. It never fails.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	s.store.Clear(ctx, sessionID)
	s.log.Info().Str("session_id", sessionID).Msg("user logged out")
}

// Signup registers a new identity in the user directory.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*domain.DirectoryUser, error) {
	form := validation.SignupForm{Email: email, Password: password, ConfirmPassword: password}
	if result := validation.Validate(form, validation.SignupConfig()); !result.IsValid {
		return nil, domain.NewValidationError(result.Errors)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.DirectoryUser{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("user registered")
	return created, nil
}

func (s *AuthService) signToken(session domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":        session.User.SessionID,
		"email":      session.User.Email,
		"login_time": session.User.LoginTime.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) parseToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrNoSession
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrNoSession
	}
	return sid, nil
}

var _ ports.AuthService = (*AuthService)(nil)
