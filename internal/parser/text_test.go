package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}

	want := []string{
		"First paragraph line one.\nFirst paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	for i, w := range want {
		if doc.Sections[i].Text != w {
			t.Errorf("section[%d]: expected %q, got %q", i, w, doc.Sections[i].Text)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
}

func TestTextParser_BlankAndWhitespaceLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"multiple blank lines", "Para one.\n\n\n\nPara two."},
		{"whitespace-only line", "Para one.\n   \nPara two."},
		{"crlf", "Para one.\r\n\r\nPara two.\r\n"},
	}
	p := &TextParser{}
	for _, tt := range tests {
		doc, err := p.Parse(strings.NewReader(tt.input), "gaps.txt")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if len(doc.Sections) != 2 {
			t.Fatalf("%s: expected 2 sections, got %d", tt.name, len(doc.Sections))
		}
	}
}

func TestTextParser_FeedsDocumentText(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader("Hello   world!\n\n$$$ Second\tpart."), "single.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.Text(); got != "Hello world!\nSecond part." {
		t.Errorf("unexpected document text %q", got)
	}
}

func TestTextParser_LineLongerThanOneMiB(t *testing.T) {
	input := strings.Repeat("word ", 300000)
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "dump.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	if got := len(doc.Sections[0].Text); got != len(input) {
		t.Errorf("expected %d bytes of text, got %d", len(input), got)
	}
}
