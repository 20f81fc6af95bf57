package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/fern/internal/document"
)

// ErrNotPDF is returned when the upload content does not sniff as a PDF.
var ErrNotPDF = errors.New("file content is not a PDF")

// PDFParser handles PDF files. It tries the Go library first, then falls
// back to pdftotext when enabled and the library fails or finds no text.
type PDFParser struct {
	FallbackPdftotext bool
}

// Parse emits one section per page that has text.
func (p *PDFParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if !mimetype.Detect(data).Is("application/pdf") {
		return nil, ErrNotPDF
	}

	pages, err := extractPDFPages(data)
	if (err != nil || !hasText(pages)) && p.FallbackPdftotext {
		if alt, altErr := extractPdftotext(data); altErr == nil {
			pages, err = alt, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	doc := &document.Document{Title: titleFromFilename(filename)}
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		doc.Sections = append(doc.Sections, document.Section{Text: page, Page: i + 1})
	}
	return doc, nil
}

// extractPDFPages returns the plain text of every page, "" for pages that
// have none. The library panics on some malformed files.
func extractPDFPages(data []byte) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}

func extractPdftotext(data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "fern-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmpPath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
