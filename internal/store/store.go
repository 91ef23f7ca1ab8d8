package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/roach88/diary/internal/retryx"
	"github.com/roach88/diary/internal/store/migrations"
)

// Options configures how a Store talks to its database file.
type Options struct {
	// Retry bounds retries of transient I/O failures.
	Retry retryx.Policy

	// Logger receives retry warnings. The zero value discards them.
	Logger zerolog.Logger
}

// Store is a hierarchical container store backed by a single SQLite file.
//
// Containers are addressed by slash-separated paths. Each container holds
// typed scalars under string keys and any number of child containers.
// A Store is owned by a single goroutine for the duration of a command.
type Store struct {
	db    *sql.DB
	path  string
	retry retryx.Policy
	log   zerolog.Logger
}

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

// Open creates or opens the store at path, creating parent directories
// and applying pragmas and migrations.
//
// The database is configured with:
//   - WAL mode
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, &IOError{Op: "migrate", Path: path, Err: err}
	}

	return &Store{
		db:    db,
		path:  path,
		retry: opts.Retry,
		log:   opts.Logger,
	}, nil
}

// Exists reports whether a store file is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveFiles deletes the store file at path along with its WAL sidecars.
// Missing files are not an error.
func RemoveFiles(path string) error {
	return remove(path, path+"-wal", path+"-shm")
}

func removeSidecars(path string) error {
	return remove(path+"-wal", path+"-shm")
}

func remove(paths ...string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &IOError{Op: "remove", Path: p, Err: err}
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the file the store was opened from.
func (s *Store) Path() string {
	return s.path
}

// Root returns the top-level container.
func (s *Store) Root() Container {
	return Container{s: s, path: ""}
}

// At returns the container at a slash-separated path without touching the
// database. Use Container.Open or Container.Child to check or create it.
func (s *Store) At(path string) Container {
	return Container{s: s, path: path}
}

// do runs fn under the store's retry policy. Structural errors are returned
// on the first attempt; everything else is wrapped as an IOError.
func (s *Store) do(ctx context.Context, op, path string, fn func(ctx context.Context) error) error {
	p := s.retry
	p.OnRetry = func(attempt int, err error) {
		s.log.Warn().
			Str("op", op).
			Str("path", path).
			Int("attempt", attempt).
			Err(err).
			Msg("retrying store operation")
	}
	return retryx.Do(ctx, p, IsTransient, func(ctx context.Context) error {
		return classify(op, path, fn(ctx))
	})
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}
