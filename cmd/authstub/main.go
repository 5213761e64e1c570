// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command authstub runs a local stand-in for the TinyTales auth API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Assemble the stub (token service, account store, router).
//  4. Start HTTP server with graceful shutdown.
//
// Accounts live in memory and disappear when the process stops.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/tinytales/internal/api"
	"github.com/taibuivan/tinytales/internal/platform/config"
	"github.com/taibuivan/tinytales/internal/platform/constants"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[TinyTales] authstub_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.LoadStub()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.Port),
		slog.String("verification_code", cfg.VerificationCode),
	)

	// Cancelled on shutdown so background cleanup goroutines stop.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 3. Wiring ─────────────────────────────────────────────────────────
	server, err := api.Assemble(ctx, cfg, log)
	must(log, err, "assemble server")

	// ── 4. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	log.Info("shutting down server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.StubAppName))
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
