// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow

import (
	"context"

	"github.com/taibuivan/tinytales/internal/guard"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
	"github.com/taibuivan/tinytales/internal/platform/validate"
)

// VerifyForm is the content of the verification form.
type VerifyForm struct {
	Code string
}

// Verify drives the email verification page.
type Verify struct {
	*base
}

// Mount sends a visitor without a provisional token back to registration.
func (c *Verify) Mount() guard.Decision {
	return guard.Apply(c.guard.RequirePending(), c.Navigator)
}

/*
Submit confirms the account with the emailed code.

Description: On success the notice is shown immediately; after the grace
delay the provisional token is dropped and the user is sent to login. The
delayed step runs through the configured [Scheduler], so Outcome.Redirect
stays empty.

Parameters:
  - ctx: context.Context
  - form: VerifyForm

Returns:
  - Outcome
*/
func (c *Verify) Submit(ctx context.Context, form VerifyForm) Outcome {

	// ── 1. Validate ───────────────────────────────────────────────────────
	v := &validate.Validator{}
	v.ExactLen(constants.FieldCode, form.Code, constants.VerificationCodeLength, c.text(i18n.KeyCodeLength))
	if err := v.Err(); err != nil {
		return c.fail(err)
	}

	// ── 2. Verify ─────────────────────────────────────────────────────────
	result, err := c.Auth.Verify(ctx, form.Code)
	if err != nil {
		return c.fail(err)
	}
	if !result.Status {
		return Outcome{}
	}

	// ── 3. Leave after the grace period ───────────────────────────────────
	c.Scheduler.After(c.VerifyDelay, func() {
		c.Session.RemoveToken()
		c.Navigator.Navigate(constants.RouteLogin)
	})

	return Outcome{Notice: c.text(i18n.KeyVerifySuccess)}
}

// Resend asks the API to email a new verification code.
func (c *Verify) Resend(ctx context.Context) Outcome {
	result, err := c.Auth.ResendCode(ctx)
	if err != nil {
		return c.fail(err)
	}
	if !result.Status {
		return Outcome{}
	}
	return Outcome{Notice: c.text(i18n.KeyResendSuccess)}
}
