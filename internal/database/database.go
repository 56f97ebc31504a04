// Package database is the sqlite-backed store for yachts and reservations.
// The conflict engine never touches it directly; callers load a snapshot of
// reservations and hand it to the engine.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB represents the database connection and the yacht cache.
type DB struct {
	*sql.DB
	yachtCache map[string]cachedYacht
	mu         sync.RWMutex
	logger     *zerolog.Logger
}

type cachedYacht struct {
	id              string
	name            string
	maxGuests       int
	minBookingHours float64
	isActive        bool
	sortOrder       int64
}

var (
	ErrNotFound               = errors.New("not found")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// New initializes the database connection and creates tables if they don't
// exist.
func New(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode and a busy timeout keep concurrent readers happy.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	instance := &DB{
		DB:         db,
		yachtCache: make(map[string]cachedYacht),
		logger:     logger,
	}

	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	if err := instance.LoadYachts(context.Background()); err != nil {
		logger.Error().Err(err).Msg("failed to load yachts into cache")
		// Not fatal; the fleet may simply not be seeded yet.
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return instance, nil
}

func (d *DB) createTables() error {
	const schema = `
CREATE TABLE IF NOT EXISTS yachts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	max_guests INTEGER NOT NULL DEFAULT 0,
	min_booking_hours REAL NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS reservations (
	id TEXT PRIMARY KEY,
	yacht_id TEXT NOT NULL REFERENCES yachts(id),
	start_datetime TIMESTAMP NOT NULL,
	end_datetime TIMESTAMP NOT NULL,
	status TEXT NOT NULL,
	kind TEXT NOT NULL DEFAULT 'charter',
	customer_name TEXT NOT NULL DEFAULT '',
	customer_email TEXT NOT NULL DEFAULT '',
	customer_phone TEXT NOT NULL DEFAULT '',
	total_value REAL NOT NULL DEFAULT 0,
	deposit_amount REAL NOT NULL DEFAULT 0,
	guest_count INTEGER NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_reservations_yacht ON reservations(yacht_id, start_datetime);
CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status);
`
	_, err := d.Exec(schema)
	return err
}
