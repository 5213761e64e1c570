// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/migration"
)

//go:embed migrations/*.sql
var sqliteMigrations embed.FS

// SQLite keeps values in a single table of an embedded database file.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLite opens (or creates) the database at path and migrates its schema.
func NewSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("kv: sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("kv: create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kv: open sqlite: %w", err)
	}

	// One connection serializes writers and keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: open sqlite: %w", err)
	}

	if err := migration.RunUp(db, sqliteMigrations, "migrations", logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv: %w", err)
	}

	logger.Debug("sqlite session backend opened", slog.String("path", path))
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("kv sqlite read failed", slog.String("key", key), slog.Any("error", err))
		return "", false
	}
	return value, true
}

func (s *SQLite) Set(key, value string) {
	s.exec("write", `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
}

func (s *SQLite) Remove(key string) {
	s.exec("remove", `DELETE FROM kv WHERE key = ?`, key)
}

func (s *SQLite) Clear() {
	s.exec("clear", `DELETE FROM kv`)
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) exec(op, query string, args ...any) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Error("kv sqlite "+op+" failed", slog.Any("error", err))
	}
}
