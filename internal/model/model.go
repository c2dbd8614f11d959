// Package model defines shared data structures.
package model

import "time"

// MenuRow is one row of the aggregate menu query.
type MenuRow struct {
	MenuID               int64
	Venue                string    // empty when no location is joined
	DateOfMenu           time.Time // zero when the menu has no date
	UpdatedAt            time.Time
	CurrencySymbol       string
	CurrencySymbolBefore bool

	// DishNames and DishPrices are group-concatenated "id###value" pairs
	// joined by "@@". They are aggregated independently, so their orders
	// are unrelated.
	DishNames  string
	DishPrices string
}

// Dish is a single dish parsed out of a MenuRow.
type Dish struct {
	ID    string
	Name  string
	Price string // formatted with currency symbol; empty if no price
}

// Delimiters used by the aggregate query.
const (
	RecordSeparator = "@@"
	FieldSeparator  = "###"
)
