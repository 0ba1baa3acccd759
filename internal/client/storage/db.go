// Package storage opens the client's local SQLite database and applies its
// schema migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/resumematch/internal/client/migrations"
	"github.com/dmitrijs2005/resumematch/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// FileName is the session database file name inside the data directory.
const FileName = "session.db"

// RunMigrations brings db up to the latest embedded schema version.
// It is safe to call repeatedly.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps :memory: databases coherent and avoids
	// SQLITE_BUSY between the REPL and the OAuth callback goroutine.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenInDir ensures dataDir exists and opens dataDir/session.db.
func OpenInDir(ctx context.Context, dataDir string) (*sql.DB, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}
	return Open(ctx, filepath.Join(dir, FileName))
}
