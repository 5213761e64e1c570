// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package flow

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/tinytales/internal/auth"
	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
	"github.com/taibuivan/tinytales/internal/platform/validate"
)

const (
	minNameLength     = 2
	minMobileLength   = 8
	minPasswordLength = 8
)

// RegisterForm is the content of the registration form.
type RegisterForm struct {
	Name                 string
	Email                string
	Mobile               string
	Password             string
	PasswordConfirmation string
	MobileCountryCode    string
}

// NewRegisterForm returns a form pre-filled with the default country code.
func NewRegisterForm() RegisterForm {
	return RegisterForm{MobileCountryCode: constants.DefaultMobileCountryCode}
}

// Register drives the registration page.
type Register struct {
	*base
}

/*
Submit creates an account.

Description: Validates the form and calls the register endpoint. A response
carrying a token stores it as the provisional session token (no display
name) and navigates to the verify page. A successful response without a token
is reported as a failed registration and leaves the session untouched.

Parameters:
  - ctx: context.Context
  - form: RegisterForm

Returns:
  - Outcome
*/
func (c *Register) Submit(ctx context.Context, form RegisterForm) Outcome {

	// ── 1. Validate ───────────────────────────────────────────────────────
	if err := c.validate(form); err != nil {
		return c.fail(err)
	}

	// ── 2. Create account ─────────────────────────────────────────────────
	result, err := c.Auth.Register(ctx, auth.RegisterInput{
		Name:                 form.Name,
		Email:                form.Email,
		Mobile:               form.Mobile,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
		MobileCountryCode:    form.MobileCountryCode,
	})
	if err != nil {
		return c.fail(err)
	}

	token := result.Token()
	if !result.Status || token == "" {
		notice := c.text(i18n.KeyRegisterFailed)
		return Outcome{Notice: notice, Err: apperr.Server(result.StatusCode, notice, nil)}
	}

	// ── 3. Keep the provisional token for verification ────────────────────
	c.Session.SetToken(token)

	return c.navigate(constants.RouteVerify)
}

func (c *Register) validate(form RegisterForm) error {
	v := &validate.Validator{}

	v.MinLen(constants.FieldName, form.Name, minNameLength, c.text(i18n.KeyNameTooShort)).
		Email(constants.FieldEmail, form.Email, c.text(i18n.KeyEmailInvalid)).
		MinLen(constants.FieldMobile, form.Mobile, minMobileLength, c.text(i18n.KeyMobileInvalid))

	// The number check needs a plausible number and a calling code.
	countryCode := strings.TrimSpace(form.MobileCountryCode)
	if utf8.RuneCountInString(form.Mobile) >= minMobileLength && countryCode != "" {
		v.Phone(constants.FieldMobile, countryCode, form.Mobile, c.text(i18n.KeyMobileInvalid))
	}

	v.MinLen(constants.FieldPassword, form.Password, minPasswordLength, c.text(i18n.KeyPasswordTooShort)).
		Equal(constants.FieldPasswordConfirmation, form.PasswordConfirmation, form.Password, c.text(i18n.KeyPasswordMismatch)).
		Required(constants.FieldMobileCountryCode, countryCode, c.text(i18n.KeyCountryCodeRequired))

	return v.Err()
}
