// Package storage bootstraps the client's local SQLite database: it opens
// the file, applies the embedded goose migrations, and vends the durable
// pending-upload and pending-delete queue repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/compose-report/reportsync/internal/client/migrations"
	"github.com/compose-report/reportsync/internal/client/repositories/deletequeue"
	"github.com/compose-report/reportsync/internal/client/repositories/uploadqueue"
)

// Storage owns the local database handle and the queue repositories built
// on top of it.
type Storage struct {
	DB      *sql.DB
	Uploads uploadqueue.Repository
	Deletes deletequeue.Repository
}

// RunMigrations applies all embedded migrations. It is idempotent: goose
// tracks applied versions in the database itself.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the SQLite database at dsn, migrates
// it, and returns the ready-to-use repositories. The caller owns Close.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{
		DB:      db,
		Uploads: uploadqueue.NewSQLiteRepository(db),
		Deletes: deletequeue.NewSQLiteRepository(db),
	}, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	return s.DB.Close()
}
