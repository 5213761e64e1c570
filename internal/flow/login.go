// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow

import (
	"context"

	"github.com/taibuivan/tinytales/internal/auth"
	"github.com/taibuivan/tinytales/internal/guard"
	"github.com/taibuivan/tinytales/internal/nav"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
	"github.com/taibuivan/tinytales/internal/platform/validate"
)

// LoginForm is the content of the login form.
type LoginForm struct {
	Email    string
	Password string
}

// Login drives the login page.
type Login struct {
	*base
}

// Mount sends an already signed-in user to the dashboard.
func (c *Login) Mount() guard.Decision {
	return guard.Apply(c.guard.RequireGuest(), c.Navigator)
}

/*
Submit signs the user in.

Description: Validates the form, calls the login endpoint and, when the
response carries a token, stores the token and display name and navigates to
the redirect target captured in entryURL (or the dashboard).

Parameters:
  - ctx: context.Context
  - form: LoginForm
  - entryURL: string (the URL the login page was opened with, e.g. "/login?redirect=/orders")

Returns:
  - Outcome: Redirect on success, Notice and Err on failure
*/
func (c *Login) Submit(ctx context.Context, form LoginForm, entryURL string) Outcome {

	// ── 1. Validate ───────────────────────────────────────────────────────
	v := &validate.Validator{}
	v.Email(constants.FieldEmail, form.Email, c.text(i18n.KeyEmailInvalid)).
		MinLen(constants.FieldPassword, form.Password, 1, c.text(i18n.KeyPasswordRequired))
	if err := v.Err(); err != nil {
		return c.fail(err)
	}

	// ── 2. Authenticate ───────────────────────────────────────────────────
	result, err := c.Auth.Login(ctx, auth.LoginInput{Email: form.Email, Password: form.Password})
	if err != nil {
		return c.fail(err)
	}

	token := result.Token()
	if !result.Status || token == "" {
		return Outcome{}
	}

	// ── 3. Persist session ────────────────────────────────────────────────
	c.Session.SetToken(token)
	if name := result.Name(); name != "" {
		c.Session.SetDisplayName(name)
	}

	// ── 4. Navigate ───────────────────────────────────────────────────────
	return c.navigate(nav.RedirectTarget(entryURL))
}
