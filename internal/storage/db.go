package storage

import (
	"database/sql"
	"fmt"
	"time"

	// Drivers registered by side effect; selection is config-driven.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// OpenOptions holds connection settings for the inventory database.
type OpenOptions struct {
	Driver          string // sqlite3 or postgres
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open opens the inventory database with the configured driver.
func Open(opts OpenOptions) (*sql.DB, error) {
	switch opts.Driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}
