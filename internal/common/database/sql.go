// internal/common/database/sql.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/models"
)

// SQLClient wraps a database/sql pool together with its driver name.
type SQLClient struct {
	DB     *sql.DB
	Driver string
}

// NewPostgres creates a PostgreSQL pool. No connection is made until first use.
func NewPostgres(cfg config.PostgresConfig) (*SQLClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &SQLClient{DB: db, Driver: "postgres"}, nil
}

// NewSQLite opens a read-only SQLite snapshot of the website tables.
func NewSQLite(cfg config.SQLiteConfig) (*SQLClient, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(4)

	return &SQLClient{DB: db, Driver: "sqlite"}, nil
}

// Ping reports models.ErrStoreUnavailable when the database cannot be reached.
func (c *SQLClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %s ping failed: %v", models.ErrStoreUnavailable, c.Driver, err)
	}
	return nil
}

// Close closes the database connection
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
