// Package store owns all persistent state for the service: workspaces,
// documents, document versions, and comments live in a single embedded
// SQLite database. Store is the only component that touches *sql.DB;
// everything else (lock leases, event emission, HTTP handlers) goes through
// its exported methods.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/Humans-Not-Required/agent-docs/internal/store/migrations"
	_ "modernc.org/sqlite"
)

// dbTx is the subset of database/sql that repository methods need to run a
// query; both *sql.DB and *sql.Tx satisfy it, so the same repository code
// runs whether or not it's inside the transaction tx() opens.
type dbTx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps the database handle. SQLite allows only one writer at a time;
// mu serializes writes while letting reads run concurrently, mirroring the
// access pattern the embedded driver itself enforces at the file level.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens (creating if necessary) the SQLite database at dsn and applies
// any pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("store: failed to set goose dialect:", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// tx serializes against other writers, then begins a transaction and runs
// fn with a handle to it, committing on success and rolling back on error
// or panic (panics are rethrown after the rollback). This is the only place
// a write transaction is opened against the database, so every repository
// method below calls it instead of touching s.db directly.
func (s *Store) tx(ctx context.Context, fn func(ctx context.Context, tx dbTx) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
			return
		}
		err = sqlTx.Commit()
	}()

	err = fn(ctx, sqlTx)
	return err
}

// rlock takes the read lock for the duration of fn, letting concurrent reads
// proceed while excluding writers.
func (s *Store) rlock(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn()
}
