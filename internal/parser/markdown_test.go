package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_SectionsPerHeading(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}

	want := []struct{ heading, text string }{
		{"Title", "Intro text."},
		{"Section A", "Section A content."},
		{"Subsection A1", "Subsection A1 content."},
		{"Section B", "Section B content."},
	}
	for i, w := range want {
		s := doc.Sections[i]
		if s.Heading != w.heading {
			t.Errorf("section[%d]: expected heading %q, got %q", i, w.heading, s.Heading)
		}
		if s.Text != w.text {
			t.Errorf("section[%d]: expected text %q, got %q", i, w.text, s.Text)
		}
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section for headingless markdown, got %d", len(doc.Sections))
	}
	if got := doc.Sections[0].Text; got != "Just some plain text.\n\nAnother paragraph here." {
		t.Errorf("unexpected text %q", got)
	}
}

func TestMarkdownParser_InlineMarkupAndCode(t *testing.T) {
	input := "# API Reference\n\nSome *emphasized* and `coded` intro.\n\n- first item\n- second item\n\n```\nGET /api/users\n```\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}

	text := doc.Sections[0].Text
	for _, want := range []string{"Some emphasized and coded intro.", "first item\nsecond item", "GET /api/users"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
	if strings.Count(text, "intro.") != 1 {
		t.Errorf("paragraph text duplicated: %q", text)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"docs/plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		doc, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if doc.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, doc.Title)
		}
	}
}
