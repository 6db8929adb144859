// Package testutil provides an in-memory SQLite catalog database for tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/01moynul/handloom-catalog/internal/database"
	"github.com/01moynul/handloom-catalog/internal/store"
)

// Schema mirrors internal/database/migrations in SQLite dialect.
const Schema = `
CREATE TABLE categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE collections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	display_order INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	sku TEXT NOT NULL,
	description TEXT NULL,
	price DECIMAL(10,2) NOT NULL,
	sale_price DECIMAL(10,2) NULL,
	stock INTEGER NOT NULL DEFAULT 0,
	category_id INTEGER NOT NULL,
	collection_id INTEGER NULL,
	fabric TEXT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	featured INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE product_colors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL REFERENCES products(id),
	name TEXT NOT NULL,
	code TEXT NOT NULL,
	stock INTEGER NULL
);
CREATE TABLE product_images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL REFERENCES products(id),
	url TEXT NOT NULL,
	alt_text TEXT NULL,
	display_order INTEGER NOT NULL DEFAULT 0,
	is_primary INTEGER NULL
);
CREATE TABLE reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	reviewer_name TEXT NOT NULL,
	rating DECIMAL(2,1) NOT NULL CHECK (rating >= 1 AND rating <= 5),
	comment TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

var dbCounter int64

// NewDB opens a fresh, isolated in-memory database with the catalog schema.
// It is closed when the test ends.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	// Named shared-cache databases keep each test isolated while the pool reconnects.
	name := fmt.Sprintf("file:catalog%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", atomic.AddInt64(&dbCounter, 1))
	db, err := sqlx.Open("sqlite", name)
	require.NoError(t, err)

	// One connection: the store never holds two at once, and SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, stmt := range database.SplitStatements(Schema) {
		_, err = db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	return db
}

// Clock is a controllable time source. Each call to Now advances it by one second
// so rows created in sequence get distinct timestamps.
type Clock struct {
	t int64
}

// NewClock starts a clock at the given instant.
func NewClock(start time.Time) *Clock {
	return &Clock{t: start.Unix() - 1}
}

// Now returns the next tick.
func (c *Clock) Now() time.Time {
	return time.Unix(atomic.AddInt64(&c.t, 1), 0).UTC()
}

// NewStore returns a store over a fresh database with a ticking clock.
func NewStore(t testing.TB, opts ...store.Option) *store.Store {
	t.Helper()
	clock := NewClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	opts = append([]store.Option{store.WithClock(clock.Now)}, opts...)
	return store.New(NewDB(t), zerolog.Nop(), opts...)
}
