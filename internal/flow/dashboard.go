// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/tinytales/internal/guard"
	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
)

// DashboardView is what the dashboard shows after mounting.
type DashboardView struct {
	Decision    guard.Decision
	DisplayName string

	// Outcome reports a failed name lookup. The page still renders.
	Outcome Outcome

	fallback string
}

// Label returns the display name, or the anonymous fallback.
func (v DashboardView) Label() string {
	if v.DisplayName != "" {
		return v.DisplayName
	}
	return v.fallback
}

// Initial returns the upper-cased first letter of the display name, or "U".
func (v DashboardView) Initial() string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(v.DisplayName))
	if r == utf8.RuneError {
		return "U"
	}
	return string(unicode.ToUpper(r))
}

// Dashboard drives the protected dashboard page.
type Dashboard struct {
	*base
}

/*
Mount guards the dashboard and resolves the display name.

Description: Without a token the user is sent to login with path as the
redirect target. With a token, the cached name is used; when none is cached
it is fetched from the current-user endpoint and stored.

Parameters:
  - ctx: context.Context
  - path: string (the requested location)

Returns:
  - DashboardView
*/
func (c *Dashboard) Mount(ctx context.Context, path string) DashboardView {
	view := DashboardView{fallback: c.text(i18n.KeyAnonymousUser)}

	// ── 1. Guard ──────────────────────────────────────────────────────────
	view.Decision = guard.Apply(c.guard.CheckAccess(path), c.Navigator)
	if !view.Decision.Authenticated() {
		view.Outcome.Redirect = view.Decision.Redirect
		return view
	}

	// ── 2. Cached name ────────────────────────────────────────────────────
	if name, ok := c.Session.DisplayName(); ok {
		view.DisplayName = name
		return view
	}

	// ── 3. Backfill from the API ──────────────────────────────────────────
	result, err := c.Auth.CurrentUser(ctx)
	if err != nil {
		view.Outcome = c.fail(err)
		if apperr.IsKind(err, apperr.KindAuthorization) {
			view.Outcome.Redirect = constants.RouteLogin
			c.Navigator.Navigate(constants.RouteLogin)
		}
		return view
	}

	if name := result.Name(); result.Status && name != "" {
		c.Session.SetDisplayName(name)
		view.DisplayName = name
	}
	return view
}
