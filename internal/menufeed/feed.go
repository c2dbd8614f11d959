// Package menufeed turns pages of the menu archive into Atom feed documents.
package menufeed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nypl-labs/menufeed/internal/atom"
	"github.com/nypl-labs/menufeed/internal/model"
	"github.com/nypl-labs/menufeed/internal/pagination"
)

// Feed-level defaults.
const (
	DefaultTitle   = "NYPL Labs Menu Archive"
	DefaultAuthor  = "NYPL"
	DefaultSiteURL = "http://menus.nypl.org/"
)

// Store is the subset of the archive the builder reads from.
type Store interface {
	CountMenus(ctx context.Context) (int, error)
	LastUpdated(ctx context.Context) (time.Time, bool, error)
	MenuPage(ctx context.Context, offset, limit int) ([]model.MenuRow, error)
}

// Options configures a Builder.
type Options struct {
	PageSize int
	Title    string
	Author   string
	// SiteURL is the feed id and the root of entry URIs.
	SiteURL string
	// FeedURL is where the feed is served; pagination links point here.
	FeedURL string
}

func (o Options) withDefaults() Options {
	if o.PageSize < 1 {
		o.PageSize = pagination.DefaultPageSize
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Author == "" {
		o.Author = DefaultAuthor
	}
	if o.SiteURL == "" {
		o.SiteURL = DefaultSiteURL
	}
	if o.FeedURL == "" {
		o.FeedURL = o.SiteURL
	}
	return o
}

// Builder assembles feed pages.
type Builder struct {
	store  Store
	opts   Options
	logger zerolog.Logger
}

// New creates a Builder reading from store.
func New(store Store, opts Options, logger zerolog.Logger) *Builder {
	return &Builder{
		store:  store,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Options returns the effective options.
func (b *Builder) Options() Options {
	return b.opts
}

// Build returns the feed for the requested page. Out of range pages are
// clamped. Any store failure aborts the build; no partial feed is returned.
func (b *Builder) Build(ctx context.Context, requested int) (*atom.Feed, error) {
	total, err := b.store.CountMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("build feed: %w", err)
	}
	pages := pagination.TotalPages(total, b.opts.PageSize)
	page := pagination.ClampPage(requested, pages)

	updated, hasUpdated, err := b.store.LastUpdated(ctx)
	if err != nil {
		return nil, fmt.Errorf("build feed: %w", err)
	}

	rows, err := b.store.MenuPage(ctx, pagination.Offset(page, b.opts.PageSize), b.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("build feed: %w", err)
	}

	feed := &atom.Feed{
		Title:  b.opts.Title,
		Author: atom.Person{Name: b.opts.Author},
		ID:     b.opts.SiteURL,
	}
	if hasUpdated {
		feed.Updated = atom.FormatTime(updated)
	}
	for _, l := range pagination.Links(b.opts.FeedURL, page, pages) {
		feed.Links = append(feed.Links, atom.Link{Rel: l.Rel, Type: l.Type, Href: l.Href})
	}
	for _, row := range rows {
		feed.Entries = append(feed.Entries, b.entry(row, feed.Updated))
	}

	b.logger.Debug().
		Int("requested", requested).
		Int("page", page).
		Int("pages", pages).
		Int("entries", len(feed.Entries)).
		Msg("built feed page")

	return feed, nil
}

// Render builds the requested page and serializes it to XML.
func (b *Builder) Render(ctx context.Context, requested int) ([]byte, error) {
	feed, err := b.Build(ctx, requested)
	if err != nil {
		return nil, err
	}
	out, err := atom.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	return out, nil
}

// entry maps one row. A menu without updated_at takes the feed's timestamp;
// if that is missing too, the element is left out.
func (b *Builder) entry(m model.MenuRow, feedUpdated string) atom.Entry {
	uri := b.MenuURL(m.MenuID)
	e := atom.Entry{
		ID:      uri,
		Updated: atom.FormatTime(m.UpdatedAt),
		Link:    atom.Link{Href: uri},
		Title:   Title(m.Venue, m.DateOfMenu),
		Summary: Summary(m.Venue, m.DateOfMenu),
	}
	if e.Updated == "" {
		e.Updated = feedUpdated
	}
	if m.DishNames == "" {
		return e
	}

	content := &atom.Content{Type: atom.ContentTypeXML}
	for _, d := range ParseDishes(m.DishNames, m.DishPrices, m.CurrencySymbol, m.CurrencySymbolBefore) {
		content.Dishes.Dishes = append(content.Dishes.Dishes, atom.Dish{Name: d.Name, Price: d.Price})
	}
	e.Content = content
	return e
}

// MenuURL is the archive page of one menu.
func (b *Builder) MenuURL(id int64) string {
	return strings.TrimSuffix(b.opts.SiteURL, "/") + "/menus/" + strconv.FormatInt(id, 10)
}

// Title is "{venue}, {year}". Missing parts are left out.
func Title(venue string, date time.Time) string {
	if date.IsZero() {
		return joinNonEmpty(venue, "")
	}
	return joinNonEmpty(venue, date.Format("2006"))
}

// Summary is "{venue}, {Month day, year}". Missing parts are left out.
func Summary(venue string, date time.Time) string {
	if date.IsZero() {
		return joinNonEmpty(venue, "")
	}
	return joinNonEmpty(venue, date.Format("January 2, 2006"))
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + ", " + b
	}
}
