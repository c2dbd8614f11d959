package database

import (
	"fmt"
	"strings"

	"github.com/nypl-labs/menufeed/internal/model"
)

// dialect holds the SQL that differs between backends.
type dialect struct {
	name      string // human readable, returned by DatabaseType
	driver    string // database/sql driver name
	nullsLast string
	schema    string

	placeholder func(n int) string
	concat      func(parts ...string) string
	groupConcat func(expr, sep string) string
}

func questionMark(int) string { return "?" }

func pipes(parts ...string) string { return strings.Join(parts, " || ") }

var sqliteDialect = dialect{
	name:        "SQLite",
	driver:      "sqlite",
	schema:      sqliteSchema,
	placeholder: questionMark,
	concat:      pipes,
	groupConcat: func(expr, sep string) string {
		return fmt.Sprintf("group_concat(%s, '%s')", expr, sep)
	},
}

var postgresDialect = dialect{
	name:        "PostgreSQL",
	driver:      "postgres",
	nullsLast:   " NULLS LAST",
	schema:      postgresSchema,
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	concat: func(parts ...string) string {
		cast := make([]string, len(parts))
		for i, p := range parts {
			cast[i] = "CAST(" + p + " AS TEXT)"
		}
		return pipes(cast...)
	},
	groupConcat: func(expr, sep string) string {
		return fmt.Sprintf("string_agg(%s, '%s')", expr, sep)
	},
}

var mysqlDialect = dialect{
	name:        "MySQL",
	driver:      "mysql",
	schema:      mysqlSchema,
	placeholder: questionMark,
	concat: func(parts ...string) string {
		return "CONCAT(" + strings.Join(parts, ", ") + ")"
	},
	groupConcat: func(expr, sep string) string {
		return fmt.Sprintf("GROUP_CONCAT(%s SEPARATOR '%s')", expr, sep)
	},
}

// menuPageQuery builds the aggregate query. Dish names and prices are
// concatenated separately; NULL prices drop out of the price column only.
func (d dialect) menuPageQuery() string {
	fieldSep := "'" + model.FieldSeparator + "'"
	names := d.groupConcat(d.concat("dishes.id", fieldSep, "dishes.name"), model.RecordSeparator)
	prices := d.groupConcat(d.concat("dishes.id", fieldSep, "menu_items.price"), model.RecordSeparator)

	return `SELECT locations.name, menus.id, menus.date_of_menu, menus.updated_at,
	currencies.symbol, currencies.is_placed_before,
	` + names + `,
	` + prices + `
FROM menus
LEFT JOIN locations ON locations.id = menus.location_id
LEFT JOIN currencies ON currencies.id = menus.currency_id
LEFT JOIN menu_pages ON menu_pages.menu_id = menus.id
LEFT JOIN menu_items ON menu_items.menu_page_id = menu_pages.id
LEFT JOIN dishes ON menu_items.dish_id = dishes.id
GROUP BY menus.id, locations.name, currencies.symbol, currencies.is_placed_before
ORDER BY menus.date_of_menu DESC` + d.nullsLast + `, menus.id DESC
LIMIT ` + d.placeholder(1) + ` OFFSET ` + d.placeholder(2)
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT
);
CREATE TABLE IF NOT EXISTS currencies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	symbol TEXT,
	is_placed_before INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS menus (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	location_id INTEGER REFERENCES locations(id),
	currency_id INTEGER REFERENCES currencies(id),
	date_of_menu DATE,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS menu_pages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	menu_id INTEGER NOT NULL REFERENCES menus(id),
	page_number INTEGER
);
CREATE TABLE IF NOT EXISTS dishes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS menu_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	menu_page_id INTEGER NOT NULL REFERENCES menu_pages(id),
	dish_id INTEGER REFERENCES dishes(id),
	price REAL
);
CREATE INDEX IF NOT EXISTS idx_menus_date_of_menu ON menus(date_of_menu DESC);
CREATE INDEX IF NOT EXISTS idx_menu_pages_menu_id ON menu_pages(menu_id);
CREATE INDEX IF NOT EXISTS idx_menu_items_menu_page_id ON menu_items(menu_page_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id BIGSERIAL PRIMARY KEY,
	name TEXT
);
CREATE TABLE IF NOT EXISTS currencies (
	id BIGSERIAL PRIMARY KEY,
	name TEXT,
	symbol TEXT,
	is_placed_before BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS menus (
	id BIGSERIAL PRIMARY KEY,
	location_id BIGINT REFERENCES locations(id),
	currency_id BIGINT REFERENCES currencies(id),
	date_of_menu DATE,
	created_at TIMESTAMP,
	updated_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS menu_pages (
	id BIGSERIAL PRIMARY KEY,
	menu_id BIGINT NOT NULL REFERENCES menus(id),
	page_number INTEGER
);
CREATE TABLE IF NOT EXISTS dishes (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS menu_items (
	id BIGSERIAL PRIMARY KEY,
	menu_page_id BIGINT NOT NULL REFERENCES menu_pages(id),
	dish_id BIGINT REFERENCES dishes(id),
	price NUMERIC(12, 2)
);
CREATE INDEX IF NOT EXISTS idx_menus_date_of_menu ON menus(date_of_menu DESC);
CREATE INDEX IF NOT EXISTS idx_menu_pages_menu_id ON menu_pages(menu_id);
CREATE INDEX IF NOT EXISTS idx_menu_items_menu_page_id ON menu_items(menu_page_id);
`

// MySQL runs one statement per Exec unless multiStatements is set, so the
// schema is split on ";" before execution.
const mysqlSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255)
);
CREATE TABLE IF NOT EXISTS currencies (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255),
	symbol VARCHAR(16),
	is_placed_before TINYINT(1) NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS menus (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	location_id BIGINT,
	currency_id BIGINT,
	date_of_menu DATE,
	created_at DATETIME,
	updated_at DATETIME,
	INDEX idx_menus_date_of_menu (date_of_menu),
	FOREIGN KEY (location_id) REFERENCES locations(id),
	FOREIGN KEY (currency_id) REFERENCES currencies(id)
);
CREATE TABLE IF NOT EXISTS menu_pages (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	menu_id BIGINT NOT NULL,
	page_number INT,
	FOREIGN KEY (menu_id) REFERENCES menus(id)
);
CREATE TABLE IF NOT EXISTS dishes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS menu_items (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	menu_page_id BIGINT NOT NULL,
	dish_id BIGINT,
	price DECIMAL(12, 2),
	FOREIGN KEY (menu_page_id) REFERENCES menu_pages(id),
	FOREIGN KEY (dish_id) REFERENCES dishes(id)
)
`
