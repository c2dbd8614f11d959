// Package dbtest builds SQLite menu archives for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nypl-labs/menufeed/internal/database"
)

// Menu describes one menu row and its dishes.
type Menu struct {
	ID      int64
	Venue   string // empty: no location row
	Symbol  string // empty: no currency row
	Before  bool
	Date    string // YYYY-MM-DD, empty for NULL
	Updated string // YYYY-MM-DD HH:MM:SS
	Dishes  []Dish
}

// Dish is a dish on a menu. A nil Price leaves menu_items.price NULL.
type Dish struct {
	ID    int64
	Name  string
	Price *float64
}

// Price returns a pointer for Dish.Price.
func Price(p float64) *float64 { return &p }

// Open creates a migrated SQLite archive in a temp dir and seeds menus.
func Open(t *testing.T, menus ...Menu) (*database.DB, *sql.DB) {
	t.Helper()
	conn, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "menus.db"))
	require.NoError(t, err)

	db, err := database.FromConn(conn, "sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx))
	for _, m := range menus {
		Insert(t, conn, m)
	}
	return db, conn
}

// Insert writes one menu with a single page holding all its dishes.
func Insert(t *testing.T, conn *sql.DB, m Menu) {
	t.Helper()
	ctx := context.Background()

	var locationID, currencyID, date any
	if m.Venue != "" {
		res, err := conn.ExecContext(ctx, "INSERT INTO locations (name) VALUES (?)", m.Venue)
		require.NoError(t, err)
		id, _ := res.LastInsertId()
		locationID = id
	}
	if m.Symbol != "" {
		res, err := conn.ExecContext(ctx,
			"INSERT INTO currencies (symbol, is_placed_before) VALUES (?, ?)", m.Symbol, m.Before)
		require.NoError(t, err)
		id, _ := res.LastInsertId()
		currencyID = id
	}
	if m.Date != "" {
		date = m.Date
	}

	_, err := conn.ExecContext(ctx, `
		INSERT INTO menus (id, location_id, currency_id, date_of_menu, updated_at)
		VALUES (?, ?, ?, ?, ?)`, m.ID, locationID, currencyID, date, m.Updated)
	require.NoError(t, err)

	res, err := conn.ExecContext(ctx, "INSERT INTO menu_pages (menu_id, page_number) VALUES (?, 1)", m.ID)
	require.NoError(t, err)
	pageID, _ := res.LastInsertId()

	for _, d := range m.Dishes {
		_, err := conn.ExecContext(ctx, "INSERT OR IGNORE INTO dishes (id, name) VALUES (?, ?)", d.ID, d.Name)
		require.NoError(t, err)
		var price any
		if d.Price != nil {
			price = *d.Price
		}
		_, err = conn.ExecContext(ctx,
			"INSERT INTO menu_items (menu_page_id, dish_id, price) VALUES (?, ?, ?)", pageID, d.ID, price)
		require.NoError(t, err)
	}
}
