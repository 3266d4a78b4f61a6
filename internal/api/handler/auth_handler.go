package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cloudscope/console-api/internal/api/metrics"
	"github.com/cloudscope/console-api/internal/api/middleware"
	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
	"github.com/cloudscope/console-api/internal/core/service"
)

// AuthHandler handles login, logout, signup, and session introspection.
type AuthHandler struct {
	manager *service.AuthManager
	auth    ports.AuthService
	scope   domain.SessionScope
	ttl     time.Duration
}

func NewAuthHandler(manager *service.AuthManager, auth ports.AuthService, scope domain.SessionScope, ttl time.Duration) *AuthHandler {
	return &AuthHandler{manager: manager, auth: auth, scope: scope, ttl: ttl}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type sessionResponse struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *domain.User `json:"user,omitempty"`
	IsInitialized   bool         `json:"isInitialized"`
}

// Login authenticates the operator and issues the session cookie.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	token, err := h.manager.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	middleware.SetSessionCookie(c, token, h.scope, h.ttl)

	state := h.manager.Snapshot()
	return c.JSON(http.StatusOK, sessionResponse{
		IsAuthenticated: state.IsAuthenticated,
		User:            state.User,
		IsInitialized:   state.IsInitialized,
	})
}

// Logout clears the persisted session and the cookie. Always succeeds.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      204  "session cleared"
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if session := middleware.SessionFrom(c); session != nil {
		h.auth.Logout(c.Request().Context(), session.User.SessionID)
	}
	h.manager.Logout(c.Request().Context())
	middleware.ClearSessionCookie(c)
	metrics.LogoutsTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Signup registers a new identity in the user directory.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  domain.DirectoryUser
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.ConfirmPassword != req.Password {
		return domain.NewValidationError(map[string]string{"confirmPassword": "Passwords do not match"})
	}

	user, err := h.auth.Signup(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Session reports the current auth state for the requesting client.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	resp := sessionResponse{IsInitialized: h.manager.Snapshot().IsInitialized}
	if session := middleware.SessionFrom(c); session != nil {
		user := session.User
		resp.IsAuthenticated = true
		resp.User = &user
	}
	return c.JSON(http.StatusOK, resp)
}
