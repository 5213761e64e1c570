// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kv provides the durable, synchronous key-value medium behind the session.

Every backend implements [Store]. Reads and writes never fail from the
caller's point of view: a backend that cannot reach its medium logs the
problem and behaves as if the key were absent.

Backends:

  - Nop: No medium at all. Reads are absent, writes vanish.
  - Memory: Process-local map. Lost on exit.
  - File: One JSON document on disk, rewritten atomically.
  - SQLite: One table in an embedded database file.
  - Redis: Keys under a prefix on a shared server.
*/
package kv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/tinytales/internal/platform/config"
	platformredis "github.com/taibuivan/tinytales/internal/platform/redis"
)

// Store is a persistent, string-keyed store.
//
// # Concurrency
//
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the value for key, or false when it is unset or unreadable.
	Get(key string) (string, bool)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string)

	// Remove deletes key. Removing an unset key is a no-op.
	Remove(key string)

	// Clear removes every key owned by this store.
	Clear()
}

// Closer is implemented by backends holding an open handle.
type Closer interface {
	Close() error
}

/*
Open builds the backend selected by the configured storage driver.

Parameters:
  - ctx: context.Context (used for the initial redis ping)
  - cfg: *config.Config
  - logger: *slog.Logger

Returns:
  - Store: Ready backend
  - error: When the selected medium cannot be opened
*/
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageNone:
		return Nop{}, nil

	case config.StorageMemory:
		return NewMemory(), nil

	case config.StorageFile:
		return NewFile(cfg.StoragePath, logger)

	case config.StorageSQLite:
		return NewSQLite(ctx, cfg.SQLitePath, logger)

	case config.StorageRedis:
		client, err := platformredis.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, fmt.Errorf("kv: %w", err)
		}
		return NewRedis(client, cfg.RedisKeyPrefix, logger), nil

	default:
		return nil, fmt.Errorf("kv: unknown storage driver %q", cfg.StorageDriver)
	}
}

// Close releases the backend's handle when it holds one.
func Close(store Store) error {
	if closer, ok := store.(Closer); ok {
		return closer.Close()
	}
	return nil
}

// # Nop

// Nop is the backend used when no storage medium is available.
type Nop struct{}

func (Nop) Get(string) (string, bool) { return "", false }
func (Nop) Set(string, string)        {}
func (Nop) Remove(string)             {}
func (Nop) Clear()                    {}
