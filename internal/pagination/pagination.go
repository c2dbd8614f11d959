// Package pagination computes page counts and the Atom link relations used
// to navigate between pages of the menu feed.
package pagination

import (
	"strconv"
	"strings"
)

// DefaultPageSize is the number of menus per feed page.
const DefaultPageSize = 100

// QueryParam is the query string parameter carrying the page number.
const QueryParam = "pg"

// TotalPages returns ceil(total/pageSize), never less than 1 so an empty
// table still has one (empty) page.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage brings a requested page into [1, totalPages].
func ClampPage(requested, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if requested < 1 {
		return 1
	}
	if requested > totalPages {
		return totalPages
	}
	return requested
}

// ParsePage reads a raw page parameter. Anything that is not a positive
// integer becomes page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset returns the number of rows to skip to reach page.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return pageSize * (page - 1)
}
