package llm

import "unicode/utf8"

// EstimateTokens approximates a prompt's token count as runes / 3, which
// errs high for English and low for CJK text.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return max(n/3, 1)
}
