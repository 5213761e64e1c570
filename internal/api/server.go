// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires the auth stub's router, middleware chain and handlers into
a runnable [http.Server].

Architecture:

  - This package is the composition root of the auth stub.
  - Only this package and cmd/authstub import net/http server primitives.
*/
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/tinytales/internal/authstub"
	"github.com/taibuivan/tinytales/internal/platform/config"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/metrics"
	"github.com/taibuivan/tinytales/internal/platform/middleware"
	"github.com/taibuivan/tinytales/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the handler sets mounted by the router.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Metrics is the /metrics prometheus exposition handler.
	Metrics http.Handler

	// Auth handles the /api/auth routes.
	Auth *authstub.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.StubConfig, log *slog.Logger, verifier middleware.TokenVerifier, recorder *metrics.HTTP, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Metrics(recorder))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Method(http.MethodGet, "/metrics", h.Metrics)

	// # Auth API
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Authenticate(verifier))
		api.Mount("/auth", h.Auth.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

/*
Assemble builds the complete auth stub from its configuration.

Description: Creates the token service, the in-memory account store, the
service and handler, the prometheus registry and the router. cmd/authstub and
the client package tests share it.

Parameters:
  - ctx: context.Context (bounds the rate limiter's cleanup goroutine)
  - cfg: *config.StubConfig
  - log: *slog.Logger

Returns:
  - *Server: Ready to serve
  - error: When the token service cannot be created
*/
func Assemble(ctx context.Context, cfg *config.StubConfig, log *slog.Logger) (*Server, error) {
	tokens, err := sec.NewTokenService(cfg.SigningKey, constants.AuthIssuer)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	store := authstub.NewMemoryStore()
	service := authstub.NewService(store, store, tokens, cfg)

	registry := metrics.NewRegistry()
	recorder := metrics.NewHTTP(registry, metrics.NamespaceStub)

	handlers := Handlers{
		Liveness: NewLivenessHandler(log),
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:     authstub.NewHandler(service),
	}

	return NewServer(ctx, cfg, log, service, recorder, handlers), nil
}

// # Server Lifecycle

// Handler exposes the router, for in-process use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
