// Package crawler walks a paginated Atom feed by its link relations.
package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/rs/zerolog"

	"github.com/nypl-labs/menufeed/internal/pagination"
)

// Defaults for a Crawler.
const (
	DefaultMaxPages = 1000
	// DefaultDelay is the pause between page requests to the same host.
	DefaultDelay = 500 * time.Millisecond
)

// ErrNotAtom is returned when a page is not an Atom document.
var ErrNotAtom = errors.New("not an atom feed")

// Page is one fetched feed page.
type Page struct {
	URL         string
	Entries     int
	WithDishes  int
	Next, Last  string
	HasPrevious bool
}

// Result summarizes a crawl.
type Result struct {
	Pages   []Page
	Entries int
	// Truncated is set when MaxPages stopped the crawl early.
	Truncated bool
}

// Crawler fetches feed pages one at a time.
type Crawler struct {
	client   *http.Client
	parser   *atom.Parser
	logger   zerolog.Logger
	MaxPages int
	Delay    time.Duration
}

// New creates a crawler. A nil client uses http.DefaultClient.
func New(client *http.Client, logger zerolog.Logger) *Crawler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Crawler{
		client:   client,
		parser:   &atom.Parser{},
		logger:   logger,
		MaxPages: DefaultMaxPages,
		Delay:    DefaultDelay,
	}
}

// Crawl starts at startURL and follows next links. When a page has no next
// link but its last link has not been visited, the crawl jumps there, so
// the final page is reached even when the second to last page omits next.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*Result, error) {
	res := &Result{}
	visited := make(map[string]bool)

	current := startURL
	for current != "" {
		if len(res.Pages) >= c.MaxPages {
			res.Truncated = true
			break
		}
		if len(res.Pages) > 0 && c.Delay > 0 {
			select {
			case <-time.After(c.Delay):
			case <-ctx.Done():
				return res, ctx.Err()
			}
		}

		page, err := c.FetchPage(ctx, current)
		if err != nil {
			return res, err
		}
		visited[pageKey(current)] = true
		res.Pages = append(res.Pages, *page)
		res.Entries += page.Entries

		c.logger.Debug().
			Str("url", current).
			Int("entries", page.Entries).
			Str("next", page.Next).
			Msg("crawled page")

		switch {
		case page.Next != "" && !visited[pageKey(page.Next)]:
			current = page.Next
		case page.Last != "" && !visited[pageKey(page.Last)]:
			current = page.Last
		default:
			current = ""
		}
	}

	c.logger.Info().
		Int("pages", len(res.Pages)).
		Int("entries", res.Entries).
		Bool("truncated", res.Truncated).
		Msg("crawl finished")
	return res, nil
}

// FetchPage downloads and parses one feed page.
func (c *Crawler) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", pageURL, err)
	}
	req.Header.Set("Accept", pagination.AtomMediaType+", text/xml;q=0.9")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}

	if gofeed.DetectFeedType(bytes.NewReader(body)) != gofeed.FeedTypeAtom {
		return nil, fmt.Errorf("%s: %w", pageURL, ErrNotAtom)
	}
	feed, err := c.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", pageURL, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	page := &Page{URL: pageURL, Entries: len(feed.Entries)}
	for _, e := range feed.Entries {
		if e.Content != nil {
			page.WithDishes++
		}
	}
	for _, l := range feed.Links {
		href := resolve(base, l.Href)
		switch l.Rel {
		case pagination.RelNext:
			page.Next = href
		case pagination.RelLast:
			page.Last = href
		case pagination.RelPrevious:
			page.HasPrevious = true
		}
	}
	return page, nil
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// pageKey treats a URL without a page parameter as page 1.
func pageKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get(pagination.QueryParam) == "" {
		q.Set(pagination.QueryParam, "1")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
