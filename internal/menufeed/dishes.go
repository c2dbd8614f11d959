package menufeed

import (
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nypl-labs/menufeed/internal/model"
)

// Prices are printed with two decimals and thousands grouping.
var pricePrinter = message.NewPrinter(language.English)

// ParseDishes turns the group-concatenated dish and price columns of a menu
// row into dishes. Order follows dishField; prices are matched by dish id.
// A dish without a matching price keeps an empty Price. An empty dishField
// yields nil whatever priceField holds.
func ParseDishes(dishField, priceField, symbol string, symbolBefore bool) []model.Dish {
	if dishField == "" {
		return nil
	}

	prices := make(map[string]string)
	if priceField != "" {
		for _, token := range strings.Split(priceField, model.RecordSeparator) {
			id, raw, ok := strings.Cut(token, model.FieldSeparator)
			if !ok {
				continue
			}
			amount, ok := formatAmount(raw)
			if !ok {
				continue
			}
			prices[id] = amount
		}
	}

	var dishes []model.Dish
	for _, token := range strings.Split(dishField, model.RecordSeparator) {
		id, name, ok := strings.Cut(token, model.FieldSeparator)
		if !ok {
			continue
		}
		d := model.Dish{ID: id, Name: name}
		if amount, found := prices[id]; found {
			d.Price = FormatPrice(amount, symbol, symbolBefore)
		}
		dishes = append(dishes, d)
	}
	return dishes
}

// FormatPrice places the currency symbol before or after amount.
func FormatPrice(amount, symbol string, before bool) string {
	if before {
		return symbol + amount
	}
	return amount + symbol
}

// formatAmount rounds the decimal text of a price to cents, halves away
// from zero, and groups thousands. Rounding works on the exact decimal so
// "2.675" becomes "2.68" rather than following its binary float value.
func formatAmount(raw string) (string, bool) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(raw))
	if !ok {
		return "", false
	}
	cents, err := strconv.ParseFloat(r.FloatString(2), 64)
	if err != nil {
		return "", false
	}
	return pricePrinter.Sprintf("%.2f", cents), true
}
