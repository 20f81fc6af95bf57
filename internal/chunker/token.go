package chunker

import "strings"

// EstimateTokens gives a rough model token count for a chunk, at about
// 1.33 tokens per whitespace-separated word. Used for previews and logs only.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	tokens := int(float64(words) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
