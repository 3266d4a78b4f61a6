package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudscope/console-api/internal/api/guard"
)

// Guard applies the route guard to the console's page routes: loading
// placeholder until the auth container is initialized, redirect to /login for
// unauthenticated visitors, redirect from the root to the dashboard once
// logged in.
func Guard(isInitialized func() bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := guard.State{
				IsInitialized:   isInitialized(),
				IsAuthenticated: SessionFrom(c) != nil,
			}

			switch guard.Decide(state, c.Request().URL.Path) {
			case guard.Loading:
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			case guard.RedirectLogin:
				return c.Redirect(http.StatusFound, guard.LoginPath)
			case guard.RedirectDashboard:
				return c.Redirect(http.StatusFound, guard.DashboardPath)
			default:
				return next(c)
			}
		}
	}
}
