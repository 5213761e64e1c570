// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command storefront is a command-line client for the TinyTales storefront.
//
// Each subcommand plays one storefront page against the auth API. The session
// (bearer token and display name) is kept in the configured storage backend,
// so it survives between invocations:
//
//	storefront register -name Ann -email ann@example.com -mobile 501234567 -password secret12 -confirm secret12
//	storefront verify -code 123456
//	storefront login -email ann@example.com -password secret12
//	storefront whoami
//	storefront logout
//
// # Startup Sequence
//
//  1. Initialize structured logger (stderr).
//  2. Load configuration from environment variables.
//  3. Open the session storage backend.
//  4. Wire transport, auth service and page controllers.
//  5. Run the subcommand.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/tinytales/internal/auth"
	"github.com/taibuivan/tinytales/internal/flow"
	"github.com/taibuivan/tinytales/internal/nav"
	"github.com/taibuivan/tinytales/internal/platform/config"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/i18n"
	"github.com/taibuivan/tinytales/internal/platform/kv"
	"github.com/taibuivan/tinytales/internal/session"
	"github.com/taibuivan/tinytales/internal/transport"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelWarn)
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled", slog.String("api_base_url", cfg.APIBaseURL))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 3. Session Storage ────────────────────────────────────────────────
	backend, err := kv.Open(ctx, cfg, log)
	if err != nil {
		// The storefront still works without a medium; the session just does not persist.
		log.Warn("session_storage_unavailable",
			slog.String("driver", cfg.StorageDriver),
			slog.Any("error", err),
		)
		backend = kv.Nop{}
	}
	defer func() {
		if cerr := kv.Close(backend); cerr != nil {
			log.Error("session storage close error", slog.Any("error", cerr))
		}
	}()

	store := session.NewStore(backend)

	// ── 4. Wiring ─────────────────────────────────────────────────────────
	term := newConsole(os.Stdout)

	client := transport.New(cfg.APIBaseURL,
		transport.WithLogger(log),
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithSession(store, func() { term.Navigate(constants.RouteLogin) }),
	)

	controllers := flow.New(flow.Dependencies{
		Auth:        auth.NewService(client),
		Session:     store,
		Navigator:   term,
		Printer:     i18n.NewPrinter(cfg.Locale),
		Logger:      log,
		Scheduler:   flow.SleepScheduler{},
		VerifyDelay: cfg.VerifyRedirectDelay,
	})

	// ── 5. Command ────────────────────────────────────────────────────────
	cli := &app{
		controllers: controllers,
		store:       store,
		console:     term,
	}

	code := cli.run(ctx, os.Args[1], os.Args[2:])
	if code != 0 {
		// Deferred cleanup must run before exiting.
		stop()
		_ = kv.Close(backend)
		os.Exit(code)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: storefront <command> [flags]")
	fmt.Fprintln(os.Stderr, "commands: register, verify, resend, login, whoami, status, logout")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Only startup wiring uses it.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

// Compile-time check: the console is a navigator.
var _ nav.Navigator = (*console)(nil)
