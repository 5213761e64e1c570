// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard decides, synchronously and locally, whether a view may render.

The check only looks at token presence. A stale token is discovered later by
the transport's 401 interceptor, which clears the session and triggers the
"session invalidated" navigation wired by the application.
*/
package guard

import (
	"github.com/taibuivan/tinytales/internal/nav"
	"github.com/taibuivan/tinytales/internal/platform/constants"
)

// State is the guard's view of the session.
type State string

const (
	// StateUnknown is the state before the first check.
	StateUnknown State = "unknown"

	// StateUnauthenticated means no token is stored.
	StateUnauthenticated State = "unauthenticated"

	// StateAuthenticated means a token is stored.
	StateAuthenticated State = "authenticated"
)

// Decision is the outcome of a check.
type Decision struct {
	State State
	// Redirect is the navigation command to issue, or "" to stay.
	Redirect string
}

// Authenticated reports whether the decision allows a protected view.
func (d Decision) Authenticated() bool {
	return d.State == StateAuthenticated
}

// TokenSource reports the stored bearer token.
type TokenSource interface {
	Token() (string, bool)
}

// Guard evaluates access against the session.
type Guard struct {
	tokens TokenSource
}

// New returns a guard reading tokens from source.
func New(source TokenSource) *Guard {
	return &Guard{tokens: source}
}

// CheckAccess guards a protected view at requestedPath.
//
// Without a token the decision redirects to login, carrying requestedPath as
// the post-login destination.
func (g *Guard) CheckAccess(requestedPath string) Decision {
	if !g.authenticated() {
		return Decision{State: StateUnauthenticated, Redirect: nav.LoginWithRedirect(requestedPath)}
	}
	return Decision{State: StateAuthenticated}
}

// RequireGuest guards a guest-only view (login): a signed-in user goes to the dashboard.
func (g *Guard) RequireGuest() Decision {
	if g.authenticated() {
		return Decision{State: StateAuthenticated, Redirect: constants.RouteDashboard}
	}
	return Decision{State: StateUnauthenticated}
}

// RequirePending guards the verify view: without a (provisional) token the
// user goes back to registration.
func (g *Guard) RequirePending() Decision {
	if !g.authenticated() {
		return Decision{State: StateUnauthenticated, Redirect: constants.RouteRegister}
	}
	return Decision{State: StateAuthenticated}
}

// Apply issues the decision's navigation, if any, and returns the decision.
func Apply(d Decision, navigator nav.Navigator) Decision {
	if d.Redirect != "" && navigator != nil {
		navigator.Navigate(d.Redirect)
	}
	return d
}

func (g *Guard) authenticated() bool {
	_, ok := g.tokens.Token()
	return ok
}
