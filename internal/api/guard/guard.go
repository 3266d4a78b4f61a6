// Package guard decides which view to serve based on auth state and path.
package guard

// Console route surface.
const (
	RootPath      = "/"
	LoginPath     = "/login"
	SignupPath    = "/signup"
	DashboardPath = "/dashboard"
)

// publicPaths are reachable without a session.
var publicPaths = map[string]struct{}{
	LoginPath:  {},
	SignupPath: {},
}

// State is the slice of auth state the guard consumes.
type State struct {
	IsInitialized   bool
	IsAuthenticated bool
}

// Decision is the guard's verdict for one navigation.
type Decision int

const (
	// Render serves the requested view.
	Render Decision = iota
	// Loading shows the placeholder until auth state is initialized.
	Loading
	// RedirectLogin sends an unauthenticated visitor to the login view.
	RedirectLogin
	// RedirectDashboard sends a logged-in visitor from the root to the
	// authenticated landing page.
	RedirectDashboard
)

// Decide is a pure function of (state, path); it is re-evaluated on every
// request and has no side effects of its own.
func Decide(state State, path string) Decision {
	if !state.IsInitialized {
		return Loading
	}
	if !state.IsAuthenticated {
		if _, public := publicPaths[path]; !public {
			return RedirectLogin
		}
		return Render
	}
	if path == RootPath {
		return RedirectDashboard
	}
	return Render
}
