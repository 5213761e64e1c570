// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package nav models the storefront's logical routes and navigation commands.

Controllers never render; they issue navigation commands through a
[Navigator]. The hosting application decides what a navigation means (a
browser redirect, a CLI prompt, a test assertion).
*/
package nav

import (
	"net/url"
	"strings"
	"sync"

	"github.com/taibuivan/tinytales/internal/platform/constants"
)

// Navigator performs a navigation to a route (path plus optional query).
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(target string)

// Navigate calls f(target).
func (f NavigatorFunc) Navigate(target string) { f(target) }

// History is an in-process navigator that records every visit.
//
// Navigating to the current location is ignored, so repeated commands (for
// example several concurrent 401 responses) land on the route only once.
type History struct {
	mu     sync.Mutex
	visits []string
}

// NewHistory returns a history positioned at start.
func NewHistory(start string) *History {
	return &History{visits: []string{start}}
}

// Navigate moves to target unless it is already the current location.
func (h *History) Navigate(target string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.visits) > 0 && h.visits[len(h.visits)-1] == target {
		return
	}
	h.visits = append(h.visits, target)
}

// Current returns the current location.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.visits) == 0 {
		return ""
	}
	return h.visits[len(h.visits)-1]
}

// Visits returns every location in order, starting with the initial one.
func (h *History) Visits() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.visits...)
}

// LoginWithRedirect builds the login route that returns to path after login.
//
// The redirect is omitted for an empty path and for the login route itself.
func LoginWithRedirect(path string) string {
	if path == "" || routePath(path) == constants.RouteLogin {
		return constants.RouteLogin
	}
	query := url.Values{constants.QueryRedirect: []string{path}}
	return constants.RouteLogin + "?" + query.Encode()
}

// RedirectTarget extracts the post-login destination from the login entry URL.
//
// Only same-site relative paths are accepted: the value must start with a
// single "/". Anything else (absolute URLs, "//host", empty) yields the
// dashboard route.
func RedirectTarget(entryURL string) string {
	parsed, err := url.Parse(entryURL)
	if err != nil {
		return constants.RouteDashboard
	}

	target := parsed.Query().Get(constants.QueryRedirect)
	if !IsSafeRedirect(target) {
		return constants.RouteDashboard
	}
	return target
}

// IsSafeRedirect reports whether target is a same-site relative path.
func IsSafeRedirect(target string) bool {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return false
	}
	parsed, err := url.Parse(target)
	return err == nil && parsed.Scheme == "" && parsed.Host == ""
}

// routePath strips the query of a route.
func routePath(route string) string {
	path, _, _ := strings.Cut(route, "?")
	return path
}
