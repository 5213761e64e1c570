// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
)

// Logout signs the user out.
type Logout struct {
	*base
}

/*
Submit ends the session locally first, then tells the API.

Description: The token is captured, both session fields are cleared and the
user is sent to login before any network call. The remote logout then runs
with the captured token; its failure is logged and never reported.

Parameters:
  - ctx: context.Context

Returns:
  - Outcome: Always successful
*/
func (c *Logout) Submit(ctx context.Context) Outcome {

	// ── 1. Local sign-out ─────────────────────────────────────────────────
	token, hadToken := c.Session.Token()
	c.Session.Clear()

	outcome := c.navigate(constants.RouteLogin)
	outcome.Notice = c.text(i18n.KeyLogoutCompleted)

	if !hadToken {
		return outcome
	}

	// ── 2. Remote revocation (best effort) ────────────────────────────────
	if err := c.Auth.Logout(ctx, token); err != nil {
		c.Logger.Warn("remote_logout_failed", slog.Any("error", err))
	}

	return outcome
}
