package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/nypl-labs/menufeed/internal/model"
)

// CountMenus returns the total number of menus.
func (db *DB) CountMenus(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM menus").Scan(&n); err != nil {
		return 0, wrap("count menus", err)
	}
	return n, nil
}

// LastUpdated returns the newest updated_at across all menus.
func (db *DB) LastUpdated(ctx context.Context) (time.Time, bool, error) {
	var updated timeValue
	err := db.conn.QueryRowContext(ctx,
		"SELECT updated_at FROM menus WHERE updated_at IS NOT NULL ORDER BY updated_at DESC LIMIT 1",
	).Scan(&updated)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, wrap("last updated", err)
	}
	return updated.Time, updated.Valid, nil
}

// MenuPage runs the aggregate menu query for one page.
func (db *DB) MenuPage(ctx context.Context, offset, limit int) ([]model.MenuRow, error) {
	rows, err := db.conn.QueryContext(ctx, db.dialect.menuPageQuery(), limit, offset)
	if err != nil {
		return nil, wrap("query menus", err)
	}
	defer rows.Close()

	var menus []model.MenuRow
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, wrap("scan menu", err)
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("query menus", err)
	}
	return menus, nil
}

func scanMenu(rows *sql.Rows) (model.MenuRow, error) {
	var (
		m                     model.MenuRow
		venue, symbol         sql.NullString
		dishNames, dishPrices sql.NullString
		before                sql.NullBool
		dateOfMenu, updatedAt timeValue
	)
	if err := rows.Scan(&venue, &m.MenuID, &dateOfMenu, &updatedAt,
		&symbol, &before, &dishNames, &dishPrices); err != nil {
		return m, err
	}
	m.Venue = venue.String
	m.DateOfMenu = dateOfMenu.Time
	m.UpdatedAt = updatedAt.Time
	m.CurrencySymbol = symbol.String
	m.CurrencySymbolBefore = before.Bool
	m.DishNames = dishNames.String
	m.DishPrices = dishPrices.String
	return m, nil
}
