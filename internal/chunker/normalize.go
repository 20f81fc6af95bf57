package chunker

import (
	"strings"
	"unicode"
)

// Normalize cleans raw document text before chunking.
//
// The passes run in a fixed order: collapse whitespace runs to one space,
// drop every character that is not a word character, whitespace, or one of
// ".,!?-", turn carriage returns into newlines, collapse newline runs, trim.
// The first pass already flattens newlines, so the newline passes rarely
// change anything; the order is part of the output contract.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = collapseSpace(text)
	text = stripNoise(text)
	text = strings.ReplaceAll(text, "\r", "\n")
	text = collapseNewlines(text)
	// Dropping noise can leave two spaces next to each other ("a @ b").
	text = collapseSpace(text)
	return strings.TrimFunc(text, isSpace)
}

// collapseSpace replaces every maximal whitespace run with a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if isSpace(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

func stripNoise(s string) string {
	return strings.Map(func(r rune) rune {
		if isWord(r) || isSpace(r) {
			return r
		}
		switch r {
		case '.', ',', '!', '?', '-':
			return r
		}
		return -1
	}, s)
}

func collapseNewlines(s string) string {
	if !strings.Contains(s, "\n\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == '\n' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSpace matches Unicode whitespace plus the ASCII information separators,
// which is the set most regex engines treat as \s for text input.
func isSpace(r rune) bool {
	if r >= 0x1c && r <= 0x1f {
		return true
	}
	return unicode.IsSpace(r)
}
