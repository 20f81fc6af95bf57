package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/fern/internal/document"
)

// TextParser handles plain text files. Blank lines separate paragraphs; each
// paragraph becomes one section.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	br := bufio.NewReader(r)

	doc := &document.Document{Title: titleFromFilename(filename)}
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			doc.Sections = append(doc.Sections, document.Section{Text: current.String()})
			current.Reset()
		}
	}

	// Lines are unbounded; a single-line upload can be as large as the file.
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
		if err == io.EOF {
			break
		}
	}
	flush()

	return doc, nil
}
