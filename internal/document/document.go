// Package document holds the text extracted from an uploaded file.
package document

import (
	"strings"

	"github.com/dgallion1/fern/internal/chunker"
)

// Document is a parsed upload: a title plus sections in reading order.
type Document struct {
	Title    string    // From metadata or the filename
	Sections []Section // Reading order
}

// Section is one heading's worth of text, or one page for paginated formats.
type Section struct {
	Heading string // Empty for untitled text and PDF pages
	Text    string
	Page    int // 1-based source page, 0 if N/A
}

// Text normalizes every section and joins the non-empty ones with a
// newline, one line per section. Headings are kept as part of the text.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		raw := s.Text
		if s.Heading != "" {
			raw = s.Heading + "\n" + raw
		}
		if clean := chunker.Normalize(raw); clean != "" {
			parts = append(parts, clean)
		}
	}
	return strings.Join(parts, "\n")
}

// Pages reports the highest page number seen.
func (d *Document) Pages() int {
	n := 0
	for _, s := range d.Sections {
		if s.Page > n {
			n = s.Page
		}
	}
	return n
}
