// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration provides a thin wrapper around golang-migrate for
// versioning the schema of embedded SQLite databases.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. Migrations ship inside the
// binary (an [fs.FS], usually an embed.FS) and are applied when a store opens
// its database, so the schema is always current before the first read.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

/*
RunUp applies all pending UP migrations to an open SQLite database.

Description: The database handle stays owned by the caller. The migrator is
not closed, because closing it would close db as well; only the source is
released.

Parameters:
  - db: *sql.DB (opened with the "sqlite" driver)
  - migrations: fs.FS holding NNNN_name.up.sql / NNNN_name.down.sql files
  - dir: string (directory inside migrations)
  - logger: *slog.Logger

Returns:
  - error: When the schema cannot be brought up to date
*/
func RunUp(db *sql.DB, migrations fs.FS, dir string, logger *slog.Logger) error {
	source, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("migration: failed to read migrations: %w", err)
	}
	defer func() {
		if cerr := source.Close(); cerr != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", cerr))
		}
	}()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration: failed to initialize driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", currentVersion)
	}

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("migration_already_up_to_date", slog.Int("version", int(currentVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Debug("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
