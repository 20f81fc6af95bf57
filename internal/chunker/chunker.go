package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultChunkSize is the soft cap, in characters, for one chunk.
	DefaultChunkSize = 500
	// MinChunkChars is the trimmed length a chunk must exceed to be kept.
	MinChunkChars = 50
)

// Split normalizes text and partitions it into chunks of at most chunkSize
// characters, honoring paragraph and sentence boundaries. Chunks keep the
// reading order of the source.
//
// chunkSize only caps what gets packed together: a single sentence longer
// than chunkSize is emitted whole as one oversized chunk.
func Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	text = Normalize(text)

	var (
		chunks  []string
		current strings.Builder
	)
	currentLen := 0

	// add packs piece into the current chunk, flushing first when it would
	// not fit.
	add := func(piece string) {
		n := utf8.RuneCountInString(piece)
		if currentLen+n > chunkSize && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
			currentLen = 0
		}
		current.WriteString(piece)
		current.WriteByte(' ')
		currentLen += n + 1
	}

	for _, para := range strings.Split(text, "\n") {
		if utf8.RuneCountInString(para) <= chunkSize {
			add(para)
			continue
		}
		for _, sent := range splitSentences(para) {
			if strings.TrimSpace(sent) == "" {
				continue
			}
			add(sent)
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return filterShort(chunks)
}

// splitSentences breaks text after '.', '!' or '?' when whitespace follows.
// The punctuation stays with its sentence and the whitespace run is dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	var prev rune
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isSpace(r) && (prev == '.' || prev == '!' || prev == '?') {
			sentences = append(sentences, text[start:i])
			j := i
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !isSpace(r2) {
					break
				}
				j += s2
			}
			start = j
			i = j
			prev = 0
			continue
		}
		prev = r
		i += size
	}
	return append(sentences, text[start:])
}

func filterShort(chunks []string) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if utf8.RuneCountInString(strings.TrimSpace(c)) > MinChunkChars {
			out = append(out, c)
		}
	}
	return out
}
