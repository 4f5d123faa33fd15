// Package tokenizer provides token counting for prompt budget management:
// tiktoken-backed exact counts with a CJK-aware estimator fallback that
// needs no external encoding data.
package tokenizer

// Tokenizer counts tokens in text.
type Tokenizer interface {
	CountTokens(text string) (int, error)
}
