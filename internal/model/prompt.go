package model

import (
	"fmt"
	"strings"
)

const summaryInstruction = `Summarize the following document excerpt.

Rules:
- Write between %d and %d words of plain prose
- Keep names, numbers and technical terms exactly as they appear
- Do not add facts that are not in the excerpt
- No headings, bullet points or markdown

Respond with ONLY the summary, no other text.`

// BuildPrompt wraps a chunk in the summarization instruction used by the
// chat-style backends. Length bounds come from p, in words.
func BuildPrompt(text string, p Params) string {
	minWords, maxWords := p.MinLength, p.MaxLength
	if minWords <= 0 {
		minWords = 1
	}
	if maxWords < minWords {
		maxWords = minWords
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(summaryInstruction, minWords, maxWords))
	sb.WriteString("\n\n---\n")
	sb.WriteString(text)
	return sb.String()
}

// maxOutputTokens converts the word bound to a token budget. Words run
// about 1.33 tokens, and replies cut at the limit end mid-sentence.
func maxOutputTokens(p Params) int {
	n := p.MaxLength * 2
	if n < 64 {
		n = 64
	}
	return n
}
