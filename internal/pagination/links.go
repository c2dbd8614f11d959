package pagination

import (
	"net/url"
	"strconv"
)

// Link relations emitted at the top of every feed page.
const (
	RelSelf     = "self"
	RelFirst    = "first"
	RelPrevious = "previous"
	RelNext     = "next"
	RelLast     = "last"
)

// AtomMediaType is set on the self link.
const AtomMediaType = "application/atom+xml"

// Link is a single navigation link.
type Link struct {
	Rel  string
	Type string
	Href string
}

// Links returns self, first, previous, next and last links for current out
// of total pages, in that order. previous appears only after page 1.
// next appears only while current+1 < total, so the second to last page
// carries no next link; last always points at the final page.
func Links(baseURL string, current, total int) []Link {
	links := []Link{
		{Rel: RelSelf, Type: AtomMediaType, Href: baseURL},
		{Rel: RelFirst, Href: baseURL},
	}
	if current > 1 {
		links = append(links, Link{Rel: RelPrevious, Href: PageURL(baseURL, current-1)})
	}
	if current+1 < total {
		links = append(links, Link{Rel: RelNext, Href: PageURL(baseURL, current+1)})
	}
	links = append(links, Link{Rel: RelLast, Href: PageURL(baseURL, total)})
	return links
}

// PageURL adds the page parameter to baseURL, keeping any query it has.
func PageURL(baseURL string, page int) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "?" + QueryParam + "=" + strconv.Itoa(page)
	}
	q := u.Query()
	q.Set(QueryParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
