// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/taibuivan/tinytales/internal/flow"
	"github.com/taibuivan/tinytales/internal/nav"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/session"
)

// console is the CLI's navigator: it prints navigation commands once each.
type console struct {
	mu      sync.Mutex
	out     io.Writer
	current string
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) Navigate(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if target == c.current {
		return
	}
	c.current = target
	fmt.Fprintf(c.out, "→ %s\n", target)
}

func (c *console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

// app dispatches subcommands to the page controllers.
type app struct {
	controllers *flow.Controllers
	store       *session.Store
	console     *console
}

// run executes one subcommand and returns the process exit code.
func (a *app) run(ctx context.Context, command string, args []string) int {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "verify":
		return a.verify(ctx, args)
	case "resend":
		return a.resend(ctx)
	case "login":
		return a.login(ctx, args)
	case "whoami":
		return a.whoami(ctx)
	case "status":
		return a.status()
	case "logout":
		return a.report(a.controllers.Logout.Submit(ctx))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", command)
		usage()
		return 2
	}
}

func (a *app) register(ctx context.Context, args []string) int {
	form := flow.NewRegisterForm()

	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.StringVar(&form.Name, "name", "", "full name")
	fs.StringVar(&form.Email, "email", "", "email address")
	fs.StringVar(&form.Mobile, "mobile", "", "mobile number without country code")
	fs.StringVar(&form.MobileCountryCode, "country", form.MobileCountryCode, "mobile country calling code")
	fs.StringVar(&form.Password, "password", "", "password (at least 8 characters)")
	fs.StringVar(&form.PasswordConfirmation, "confirm", "", "password confirmation")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	return a.report(a.controllers.Register.Submit(ctx, form))
}

func (a *app) verify(ctx context.Context, args []string) int {
	var form flow.VerifyForm

	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.StringVar(&form.Code, "code", "", "6-digit verification code")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if !a.controllers.Verify.Mount().Authenticated() {
		return 1
	}
	return a.report(a.controllers.Verify.Submit(ctx, form))
}

func (a *app) resend(ctx context.Context) int {
	if !a.controllers.Verify.Mount().Authenticated() {
		return 1
	}
	return a.report(a.controllers.Verify.Resend(ctx))
}

func (a *app) login(ctx context.Context, args []string) int {
	var form flow.LoginForm
	var redirect string

	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.StringVar(&form.Email, "email", "", "email address")
	fs.StringVar(&form.Password, "password", "", "password")
	fs.StringVar(&redirect, "redirect", "", "path to open after login")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if a.controllers.Login.Mount().Authenticated() {
		return 0
	}
	return a.report(a.controllers.Login.Submit(ctx, form, nav.LoginWithRedirect(redirect)))
}

func (a *app) whoami(ctx context.Context) int {
	view := a.controllers.Dashboard.Mount(ctx, constants.RouteDashboard)
	if !view.Decision.Authenticated() {
		return 1
	}
	if view.Outcome.Notice != "" {
		a.console.Println(view.Outcome.Notice)
	}
	a.console.Println(fmt.Sprintf("[%s] %s", view.Initial(), view.Label()))
	if view.Outcome.Failed() {
		return 1
	}
	return 0
}

func (a *app) status() int {
	snapshot := a.store.Snapshot()
	if !snapshot.Authenticated() {
		a.console.Println("signed out")
		return 0
	}

	name := snapshot.DisplayName
	if name == "" {
		name = "-"
	}
	a.console.Println("signed in, name:", name)
	return 0
}

// report prints an outcome's notice and field messages and maps it to an exit code.
func (a *app) report(outcome flow.Outcome) int {
	if outcome.Notice != "" {
		a.console.Println(outcome.Notice)
	}
	for _, field := range outcome.Fields {
		for _, msg := range field.Messages {
			a.console.Println(" -", field.Field+":", msg)
		}
	}
	if outcome.Failed() {
		return 1
	}
	return 0
}
