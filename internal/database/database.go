// Package database provides connection management and transaction plumbing
// shared by all repositories.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

// Supported driver names. Repositories ship a dialect for each.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config holds connection and pool settings.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect opens a pooled connection for the configured driver and verifies it
// with a ping. Unknown drivers are rejected before dialing.
func Connect(cfg Config) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return nil, apperrors.Wrap(
			apperrors.ErrConfiguration,
			fmt.Sprintf("unsupported DB_DRIVER %q", cfg.Driver),
		)
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
