// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tinytales/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Stub Identity

// WithSubject attaches the account email resolved from a bearer token.
func WithSubject(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxkey.KeySubject, email)
}

// GetSubject returns the account email attached by the bearer middleware, or "".
func GetSubject(ctx context.Context) string {
	email, _ := ctx.Value(ctxkey.KeySubject).(string)
	return email
}

// WithTokenID attaches the jti of the presented bearer token.
func WithTokenID(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyTokenID, jti)
}

// GetTokenID returns the jti attached by the bearer middleware, or "".
func GetTokenID(ctx context.Context) string {
	jti, _ := ctx.Value(ctxkey.KeyTokenID).(string)
	return jti
}
