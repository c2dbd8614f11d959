// Package atom defines the Atom 1.0 document written by the menu feed.
package atom

import (
	"encoding/xml"
	"time"
)

// Namespace is the Atom 1.0 XML namespace.
const Namespace = "http://www.w3.org/2005/Atom"

// ContentTypeXML marks entry content as structured XML rather than HTML.
const ContentTypeXML = "application/xml"

// Feed is the root <feed> element. Field order is element order.
type Feed struct {
	XMLName xml.Name `xml:"http://www.w3.org/2005/Atom feed"`
	Title   string   `xml:"title"`
	Updated string   `xml:"updated,omitempty"`
	Author  Person   `xml:"author"`
	ID      string   `xml:"id"`
	Links   []Link   `xml:"link"`
	Entries []Entry  `xml:"entry"`
}

// Person is an author.
type Person struct {
	Name string `xml:"name"`
}

// Link is an Atom <link>.
type Link struct {
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
	Href string `xml:"href,attr"`
}

// Entry is one menu.
type Entry struct {
	ID      string   `xml:"id"`
	Updated string   `xml:"updated,omitempty"`
	Link    Link     `xml:"link"`
	Title   string   `xml:"title"`
	Summary string   `xml:"summary"`
	Content *Content `xml:"content,omitempty"`
}

// Content wraps the dish list of an entry.
type Content struct {
	Type   string `xml:"type,attr"`
	Dishes Dishes `xml:"dishes"`
}

// Dishes is the <dishes> element inside entry content.
type Dishes struct {
	Dishes []Dish `xml:"dish"`
}

// Dish is a single <dish>. Price is omitted when unknown.
type Dish struct {
	Name  string `xml:"dish-name"`
	Price string `xml:"dish-price,omitempty"`
}

// FormatTime renders t the way Atom timestamps are written.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Marshal serializes the feed with an XML header and two-space indentation.
func Marshal(f *Feed) ([]byte, error) {
	output, err := xml.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), output...), nil
}

// Unmarshal parses a document written by Marshal.
func Unmarshal(data []byte) (*Feed, error) {
	var f Feed
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
