package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cloudscope/console-api/internal/api/metrics"
	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// CookieName carries the signed session token.
const CookieName = "console_session"

const sessionContextKey = "session"

// Session restores the session from the cookie token, if any, and injects it
// into the request context. It never rejects: missing or dead sessions just
// leave the request unauthenticated for the guard or RequireSession to handle.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session, err := auth.Restore(c.Request().Context(), cookie.Value)
			if err != nil {
				metrics.SessionRestoresTotal.WithLabelValues("miss").Inc()
				return next(c)
			}

			metrics.SessionRestoresTotal.WithLabelValues("hit").Inc()
			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// RequireSession guards API routes: without a restored session the request is
// rejected with 401 instead of a redirect.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionFrom(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// SessionFrom extracts the restored session from the context, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	session, _ := c.Get(sessionContextKey).(*domain.Session)
	return session
}

// SetSessionCookie issues the session cookie. Scope tab omits Max-Age so the
// cookie dies with the browser session; scope persistent pins it to the
// session TTL.
func SetSessionCookie(c echo.Context, token string, scope domain.SessionScope, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if scope == domain.ScopePersistent {
		cookie.MaxAge = int(ttl.Seconds())
	}
	c.SetCookie(cookie)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
