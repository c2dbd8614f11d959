package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nypl-labs/menufeed/internal/database/dbtest"
	"github.com/nypl-labs/menufeed/internal/menufeed"
	"github.com/nypl-labs/menufeed/internal/server"
)

// archiveServer serves a seeded archive with two menus per page.
func archiveServer(t *testing.T, menus int) *httptest.Server {
	t.Helper()
	var seed []dbtest.Menu
	for i := 1; i <= menus; i++ {
		m := dbtest.Menu{
			ID:      int64(i),
			Venue:   fmt.Sprintf("Venue %d", i),
			Date:    fmt.Sprintf("1900-02-%02d", i),
			Updated: "2011-05-04 10:00:00",
		}
		if i%2 == 0 {
			m.Dishes = []dbtest.Dish{{ID: int64(i), Name: "Tea"}}
		}
		seed = append(seed, m)
	}
	db, _ := dbtest.Open(t, seed...)

	ts := httptest.NewUnstartedServer(nil)
	builder := menufeed.New(db, menufeed.Options{PageSize: 2, FeedURL: "http://" + ts.Listener.Addr().String() + "/feed"}, zerolog.Nop())
	ts.Config.Handler = server.New(builder, db, zerolog.Nop())
	ts.Start()
	t.Cleanup(ts.Close)
	return ts
}

func newCrawler(ts *httptest.Server) *Crawler {
	c := New(ts.Client(), zerolog.Nop())
	c.Delay = 0
	return c
}

func TestCrawl_ReachesLastPage(t *testing.T) {
	ts := archiveServer(t, 7)

	res, err := newCrawler(ts).Crawl(context.Background(), ts.URL+"/feed")
	require.NoError(t, err)

	require.Len(t, res.Pages, 4)
	assert.Equal(t, 7, res.Entries)
	assert.False(t, res.Truncated)

	assert.Equal(t, ts.URL+"/feed?pg=2", res.Pages[0].Next)
	assert.False(t, res.Pages[0].HasPrevious)
	assert.Empty(t, res.Pages[2].Next, "second to last page has no next link")
	assert.Equal(t, ts.URL+"/feed?pg=4", res.Pages[2].Last)
	assert.Equal(t, ts.URL+"/feed?pg=4", res.Pages[3].URL)
	assert.True(t, res.Pages[3].HasPrevious)

	withDishes := 0
	for _, p := range res.Pages {
		withDishes += p.WithDishes
	}
	assert.Equal(t, 3, withDishes)
}

func TestCrawl_SinglePage(t *testing.T) {
	ts := archiveServer(t, 1)

	res, err := newCrawler(ts).Crawl(context.Background(), ts.URL+"/feed")
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, 1, res.Entries)
	assert.Empty(t, res.Pages[0].Next)
}

func TestCrawl_MaxPages(t *testing.T) {
	ts := archiveServer(t, 7)
	c := newCrawler(ts)
	c.MaxPages = 2

	res, err := c.Crawl(context.Background(), ts.URL+"/feed")
	require.NoError(t, err)
	assert.Len(t, res.Pages, 2)
	assert.True(t, res.Truncated)
}

func TestFetchPage_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rss":
			w.Header().Set("Content-Type", "text/xml")
			fmt.Fprint(w, `<?xml version="1.0"?><rss version="2.0"><channel><title>x</title></channel></rss>`)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer ts.Close()
	c := newCrawler(ts)

	_, err := c.FetchPage(context.Background(), ts.URL+"/rss")
	assert.ErrorIs(t, err, ErrNotAtom)

	_, err = c.FetchPage(context.Background(), ts.URL+"/down")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestPageKey(t *testing.T) {
	assert.Equal(t, pageKey("http://h/feed?pg=1"), pageKey("http://h/feed"))
	assert.NotEqual(t, pageKey("http://h/feed?pg=2"), pageKey("http://h/feed"))
}
