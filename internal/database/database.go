package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a menu archive connection for one SQL dialect.
type DB struct {
	conn    *sql.DB
	dialect dialect
}

// Ensure DB implements Store interface.
var _ Store = (*DB)(nil)

// New opens or creates an SQLite database at the given path.
func New(path string) (*DB, error) {
	conn, err := sql.Open(sqliteDialect.driver, path)
	if err != nil {
		return nil, wrap("open sqlite", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, wrap("set wal mode", err)
	}
	return &DB{conn: conn, dialect: sqliteDialect}, nil
}

// FromConn wraps a connection opened by the caller. driver selects the SQL
// dialect ("sqlite", "postgres" or "mysql"). Close closes conn.
func FromConn(conn *sql.DB, driver string) (*DB, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &DB{conn: conn, dialect: d}, nil
}

// Open connects to the backend named by driver.
func Open(driver, dsn string) (*DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3", "":
		return New(dsn)
	case "postgres", "postgresql":
		return NewPostgres(dsn)
	case "mysql":
		return NewMySQL(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return sqliteDialect, nil
	case "postgres", "postgresql":
		return postgresDialect, nil
	case "mysql":
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DatabaseType returns the database backend name.
func (db *DB) DatabaseType() string {
	return db.dialect.name
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return wrap("ping", db.conn.PingContext(ctx))
}

// Migrate creates the menu archive tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if db.dialect.driver != mysqlDialect.driver {
		_, err := db.conn.ExecContext(ctx, db.dialect.schema)
		return wrap("migrate", err)
	}
	for _, stmt := range strings.Split(db.dialect.schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return wrap("migrate", err)
		}
	}
	return nil
}
