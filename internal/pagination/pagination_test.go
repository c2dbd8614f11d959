package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		want     int
	}{
		{name: "empty table", total: 0, pageSize: 100, want: 1},
		{name: "empty table small pages", total: 0, pageSize: 1, want: 1},
		{name: "partial last page", total: 250, pageSize: 100, want: 3},
		{name: "exact fit", total: 300, pageSize: 100, want: 3},
		{name: "one over", total: 301, pageSize: 100, want: 4},
		{name: "fewer than a page", total: 7, pageSize: 100, want: 1},
		{name: "zero page size", total: 5, pageSize: 0, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.pageSize))
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		total     int
		want      int
	}{
		{name: "zero", requested: 0, total: 5, want: 1},
		{name: "negative", requested: -3, total: 5, want: 1},
		{name: "in range", requested: 3, total: 5, want: 3},
		{name: "last", requested: 5, total: 5, want: 5},
		{name: "past end", requested: 6, total: 5, want: 5},
		{name: "far past end", requested: 1000, total: 3, want: 3},
		{name: "single page", requested: 2, total: 1, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.requested, tt.total))
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":     1,
		"abc":  1,
		"0":    1,
		"-4":   1,
		"1.5":  1,
		"2":    2,
		" 17 ": 17,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePage(raw), "raw %q", raw)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 100))
	assert.Equal(t, 200, Offset(3, 100))
	assert.Equal(t, 0, Offset(0, 100))
}

const base = "http://menus.example.org/feed"

func rels(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Rel)
	}
	return out
}

func hrefs(links []Link) map[string]string {
	out := make(map[string]string, len(links))
	for _, l := range links {
		out[l.Rel] = l.Href
	}
	return out
}

func TestLinks_Relations(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []string
	}{
		{name: "first of five", current: 1, total: 5, want: []string{"self", "first", "next", "last"}},
		{name: "middle of five", current: 3, total: 5, want: []string{"self", "first", "previous", "next", "last"}},
		{name: "second to last has no next", current: 4, total: 5, want: []string{"self", "first", "previous", "last"}},
		{name: "last of five", current: 5, total: 5, want: []string{"self", "first", "previous", "last"}},
		{name: "single page", current: 1, total: 1, want: []string{"self", "first", "last"}},
		{name: "first of two has no next", current: 1, total: 2, want: []string{"self", "first", "last"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rels(Links(base, tt.current, tt.total)))
		})
	}
}

func TestLinks_Hrefs(t *testing.T) {
	links := Links(base, 2, 5)
	require.Len(t, links, 5)

	assert.Equal(t, AtomMediaType, links[0].Type)
	for _, l := range links[1:] {
		assert.Empty(t, l.Type, "only self carries a type")
	}

	got := hrefs(links)
	assert.Equal(t, base, got[RelSelf])
	assert.Equal(t, base, got[RelFirst])
	assert.Equal(t, base+"?pg=1", got[RelPrevious])
	assert.Equal(t, base+"?pg=3", got[RelNext])
	assert.Equal(t, base+"?pg=5", got[RelLast])
}

func TestLinks_NeverOutOfRange(t *testing.T) {
	for total := 1; total <= 6; total++ {
		for current := 1; current <= total; current++ {
			for _, l := range Links(base, current, total) {
				if l.Href == base {
					continue
				}
				assert.Contains(t, l.Href, "?pg=")
				assert.NotEqual(t, base+"?pg=0", l.Href)
				assert.NotContains(t, l.Href, "pg="+strconv.Itoa(total+1))
			}
		}
	}
}

func TestPageURL_KeepsExistingQuery(t *testing.T) {
	assert.Equal(t, "http://h/feed?format=atom&pg=2", PageURL("http://h/feed?format=atom", 2))
	assert.Equal(t, "http://h/feed?pg=4", PageURL("http://h/feed?pg=9", 4))
}
