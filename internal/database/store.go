// Package database provides read access to the menu archive.
package database

import (
	"context"
	"errors"
	"time"

	"github.com/nypl-labs/menufeed/internal/model"
)

// Store defines the queries the feed builder needs.
// SQLite, PostgreSQL and MySQL implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend.
	DatabaseType() string

	Ping(ctx context.Context) error

	// CountMenus returns the number of rows in menus.
	CountMenus(ctx context.Context) (int, error)

	// LastUpdated returns the most recent menus.updated_at. ok is false
	// when the table is empty.
	LastUpdated(ctx context.Context) (t time.Time, ok bool, err error)

	// MenuPage returns up to limit menus, newest first, skipping offset.
	MenuPage(ctx context.Context, offset, limit int) ([]model.MenuRow, error)
}

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown database driver")

// Error is a connection or query failure. Op names the failed step.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "database: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return err
	}
	return &Error{Op: op, Err: err}
}
