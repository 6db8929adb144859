// Package store is the data-access layer for the catalog. Every query is
// plain SQL with '?' placeholders so the same statements run against MySQL
// in production and SQLite in tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/01moynul/handloom-catalog/internal/logging"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNoFields is returned by partial updates that carry no updatable field.
	ErrNoFields = errors.New("no fields to update")
)

// FileCleaner removes stored image files. Failures are the cleaner's to log;
// they never abort the surrounding transaction.
type FileCleaner interface {
	Cleanup(urls []string)
}

type noopCleaner struct{}

func (noopCleaner) Cleanup([]string) {}

// Store wraps the connection pool. It is safe for concurrent use.
type Store struct {
	db      *sqlx.DB
	cleaner FileCleaner
	log     zerolog.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithFileCleaner sets the side-channel used to unlink replaced product images.
func WithFileCleaner(c FileCleaner) Option {
	return func(s *Store) {
		if c != nil {
			s.cleaner = c
		}
	}
}

// WithClock overrides time.Now, used for created_at/updated_at and SKUs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store.
func New(db *sqlx.DB, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		db:      db,
		cleaner: noopCleaner{},
		log:     logging.PackageLogger(logger, "store"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the pool.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// withTx runs fn inside a transaction. Any error rolls back.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// updateSet accumulates "column = ?" clauses for a partial UPDATE.
type updateSet struct {
	clauses []string
	args    []interface{}
}

func (u *updateSet) add(column string, value interface{}) {
	u.clauses = append(u.clauses, column+" = ?")
	u.args = append(u.args, value)
}

func (u *updateSet) empty() bool {
	return len(u.clauses) == 0
}

// build renders "UPDATE table SET ... WHERE id = ?". It returns ErrNoFields if nothing was added.
func (u *updateSet) build(table string, id int64) (string, []interface{}, error) {
	if u.empty() {
		return "", nil, ErrNoFields
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(u.clauses, ", "))
	return query, append(u.args, id), nil
}
