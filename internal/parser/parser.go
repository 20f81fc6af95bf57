package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dgallion1/fern/internal/document"
)

// Parser converts raw upload bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// Options tune parser behavior.
type Options struct {
	// PDFFallbackPdftotext retries unreadable PDFs with the pdftotext binary.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// IsPDF reports whether filename ends in .pdf, ignoring case.
func IsPDF(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// DetectMIME sniffs the content type from the leading bytes of data.
func DetectMIME(data []byte) string {
	return mimetype.Detect(data).String()
}

func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sectionBuilder accumulates paragraphs under the most recent heading.
type sectionBuilder struct {
	doc     *document.Document
	heading string
	page    int
	text    strings.Builder
}

func newSectionBuilder(title string) *sectionBuilder {
	return &sectionBuilder{doc: &document.Document{Title: title}}
}

// Heading closes the current section and opens a new one.
func (b *sectionBuilder) Heading(h string) {
	b.flush()
	b.heading = strings.TrimSpace(h)
}

func (b *sectionBuilder) Paragraph(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

func (b *sectionBuilder) flush() {
	t := b.text.String()
	if b.heading != "" || t != "" {
		b.doc.Sections = append(b.doc.Sections, document.Section{
			Heading: b.heading,
			Text:    t,
			Page:    b.page,
		})
	}
	b.heading = ""
	b.text.Reset()
}

func (b *sectionBuilder) Done() *document.Document {
	b.flush()
	return b.doc
}
