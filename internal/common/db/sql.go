package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds the configuration for a SQL connection pool
type Config struct {
	// Driver is "mysql" or "sqlite"
	Driver string `yaml:"driver"`

	// DSN is the data source name.
	// mysql:  "user:password@tcp(host:port)/dbname?parseTime=true"
	// sqlite: "file:/var/lib/homework-bot/journal.db?_pragma=busy_timeout(5000)"
	DSN string `yaml:"dsn"`

	// MaxOpenConnections, default 4 (1 for sqlite)
	MaxOpenConnections int `yaml:"maxOpenConnections"`

	// ConnMaxLifetime, default 5 minutes
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// SQLDatabase implements Database over database/sql
type SQLDatabase struct {
	db     *sql.DB
	driver string
}

// Open opens and pings a database described by config.
func Open(config *Config) (*SQLDatabase, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("DSN cannot be empty")
	}
	driver := strings.ToLower(strings.TrimSpace(config.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverMySQL && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", config.Driver)
	}

	maxOpen := config.MaxOpenConnections
	if maxOpen <= 0 {
		maxOpen = 4
	}
	if driver == DriverSQLite {
		// sqlite takes one writer at a time
		maxOpen = 1
	}
	lifetime := config.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = 5 * time.Minute
	}

	db, err := sql.Open(driver, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(lifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLDatabase{db: db, driver: driver}, nil
}

// Driver returns the driver name
func (d *SQLDatabase) Driver() string {
	return d.driver
}

// Query executes a query that returns rows
func (d *SQLDatabase) Query(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

// QueryRow executes a query that returns at most one row
func (d *SQLDatabase) QueryRow(ctx context.Context, query string, args ...interface{}) Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// Exec executes a query that doesn't return rows
func (d *SQLDatabase) Exec(ctx context.Context, query string, args ...interface{}) (Result, error) {
	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec failed: %w", err)
	}
	return result, nil
}

// Ping verifies a connection to the database is still alive
func (d *SQLDatabase) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *SQLDatabase) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	return nil
}
