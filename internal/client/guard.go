package client

import "strings"

// GuardAction is the navigation decision for a request path.
type GuardAction int

const (
	// Allow lets the navigation proceed.
	Allow GuardAction = iota
	// RedirectHome sends an authenticated user away from a public-only
	// page.
	RedirectHome
	// RedirectLogin sends an unauthenticated user to the login page.
	RedirectLogin
)

func (a GuardAction) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectHome:
		return "redirect-home"
	case RedirectLogin:
		return "redirect-login"
	default:
		return "unknown"
	}
}

// publicPaths are reachable without a token; with a token they redirect
// home instead.
var publicPaths = []string{"/login", "/register"}

// Guard decides navigation from the path and token presence alone.
// It never checks token validity: a stale token passes here and fails at
// the protected resource, whose 401 handling performs the second-stage
// redirect. Both stages are intentional.
func Guard(path string, tokenPresent bool) GuardAction {
	public := isPublicPath(path)

	switch {
	case public && tokenPresent:
		return RedirectHome
	case public && !tokenPresent:
		return Allow
	case !public && tokenPresent:
		return Allow
	default:
		return RedirectLogin
	}
}

// isPublicPath matches the public pages and their sub-paths.
func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
