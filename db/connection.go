package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gyurix/soitrontask/config"
	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type DBType string

const (
	MySQL      DBType = "mysql"
	PostgreSQL DBType = "postgres"
	SQLite     DBType = "sqlite3"
)

// ErrUnsupportedDatabase is returned for URL schemes without a driver
var ErrUnsupportedDatabase = errors.New("unsupported database type")

// Connection is the raw query executor shared by every store.
// It owns the database handle and the mapper registry.
type Connection struct {
	db      *sqlx.DB
	Type    DBType
	cfg     *config.Config
	mappers *mapperRegistry
}

// Connect establishes a database connection from a URL string
func Connect(dbURL string, cfg *config.Config) (*Connection, error) {
	dbType, dsn, err := dataSourceName(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(string(dbType), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Every store goes through this single connection; an in-memory SQLite
	// database also exists only for the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return NewConnection(db, dbType, cfg), nil
}

// NewConnection wraps an open database handle; Connect is the usual entry point
func NewConnection(db *sqlx.DB, dbType DBType, cfg *config.Config) *Connection {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Connection{
		db:      db,
		Type:    dbType,
		cfg:     cfg,
		mappers: newMapperRegistry(),
	}
}

// dataSourceName converts a database URL into a driver type and DSN
func dataSourceName(dbURL string) (DBType, string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "mysql":
		// Convert URL format to DSN format
		// Remove leading '/' from path (database name)
		database := strings.TrimPrefix(u.Path, "/")
		return MySQL, fmt.Sprintf("%s@tcp(%s)/%s", u.User.String(), u.Host, database), nil

	case "postgres", "postgresql":
		// PostgreSQL can use the URL directly
		return PostgreSQL, dbURL, nil

	case "sqlite", "sqlite3":
		// sqlite::memory:, sqlite:file.db and sqlite:///abs/file.db
		path := u.Opaque
		if path == "" {
			path = u.Host + u.Path
		}
		if path == "" {
			return "", "", fmt.Errorf("invalid database URL: missing sqlite path in %s", dbURL)
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		return SQLite, path, nil

	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedDatabase, u.Scheme)
	}
}

// Close closes the database connection
func (c *Connection) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping checks that the database is still reachable
func (c *Connection) Ping(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("sql: database is closed")
	}
	return c.db.PingContext(ctx)
}

func (c *Connection) logQuery(ctx context.Context, query string, args []any) {
	if c.cfg.Verbose {
		slog.DebugContext(ctx, "executing SQL", "query", query, "args", len(args))
	}
}
