// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package flow implements the storefront's page controllers.

Each controller mirrors one page of the storefront (login, register, verify,
dashboard, logout). Controllers validate forms, call the auth API, move the
token and display name in and out of the session, and issue navigation
commands. They never render: every action returns an [Outcome] that the host
(CLI, tests) presents however it likes.

Architecture:

  - Controllers share one [Dependencies] set built by the host.
  - Failures are always converted to a single display string with
    [apperr.Describe]; the raw error stays available in [Outcome.Err].
  - Delayed work (the verify grace period) goes through a [Scheduler].
*/
package flow

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/text/message"

	"github.com/taibuivan/tinytales/internal/auth"
	"github.com/taibuivan/tinytales/internal/guard"
	"github.com/taibuivan/tinytales/internal/nav"
	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
	"github.com/taibuivan/tinytales/internal/session"
)

// # Contracts

// AuthAPI is the subset of [auth.Service] the controllers call.
type AuthAPI interface {
	Register(ctx context.Context, input auth.RegisterInput) (*auth.Result, error)
	Login(ctx context.Context, input auth.LoginInput) (*auth.Result, error)
	Verify(ctx context.Context, code string) (*auth.Result, error)
	ResendCode(ctx context.Context) (*auth.Result, error)
	CurrentUser(ctx context.Context) (*auth.Result, error)
	Logout(ctx context.Context, token string) error
}

// Scheduler runs fn once after d.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler runs delayed work on a runtime timer.
type TimerScheduler struct{}

// After schedules fn with [time.AfterFunc] and returns immediately.
func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// SleepScheduler blocks the caller for d, then runs fn.
//
// Short-lived hosts (the CLI) use it so the delayed work completes before the
// process exits.
type SleepScheduler struct{}

// After sleeps for d and calls fn on the caller's goroutine.
func (SleepScheduler) After(d time.Duration, fn func()) {
	time.Sleep(d)
	fn()
}

// # Outcome

// Outcome is what a controller action reports back to the host.
type Outcome struct {
	// Notice is the single text to show, success or failure.
	Notice string

	// Fields carries per-field validation messages, in order.
	Fields apperr.FieldErrors

	// Redirect is the navigation issued by the action, if any.
	Redirect string

	// Err is the failure behind Notice. It is nil on success.
	Err error
}

// Failed reports whether the action failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// # Wiring

// Dependencies groups everything the controllers need.
type Dependencies struct {
	Auth      AuthAPI
	Session   *session.Store
	Navigator nav.Navigator
	Printer   *message.Printer
	Logger    *slog.Logger

	// Scheduler defaults to [TimerScheduler].
	Scheduler Scheduler

	// VerifyDelay is the grace period before leaving the verify page.
	// Zero means [constants.VerifyRedirectDelay].
	VerifyDelay time.Duration
}

// Controllers holds one controller per page.
type Controllers struct {
	Login     *Login
	Register  *Register
	Verify    *Verify
	Dashboard *Dashboard
	Logout    *Logout
}

// New builds every controller over the same dependencies.
func New(deps Dependencies) *Controllers {
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}
	if deps.VerifyDelay == 0 {
		deps.VerifyDelay = constants.VerifyRedirectDelay
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Printer == nil {
		deps.Printer = i18n.NewPrinter("")
	}
	if deps.Navigator == nil {
		deps.Navigator = nav.NavigatorFunc(func(string) {})
	}

	b := &base{
		Dependencies: deps,
		guard:        guard.New(deps.Session),
	}

	return &Controllers{
		Login:     &Login{base: b},
		Register:  &Register{base: b},
		Verify:    &Verify{base: b},
		Dashboard: &Dashboard{base: b},
		Logout:    &Logout{base: b},
	}
}

// base is shared by every controller.
type base struct {
	Dependencies
	guard *guard.Guard
}

func (b *base) text(key string) string {
	return i18n.Text(b.Printer, key)
}

// navigate issues a navigation and reports it.
func (b *base) navigate(target string) Outcome {
	b.Navigator.Navigate(target)
	return Outcome{Redirect: target}
}

// fail converts err into a displayable outcome.
func (b *base) fail(err error) Outcome {
	outcome := Outcome{Notice: apperr.Describe(err, b.Printer), Err: err}
	if ae := apperr.As(err); ae != nil {
		outcome.Fields = ae.Fields
	}
	return outcome
}
