package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenTokenizer counts tokens with an exact BPE encoding. Construction
// may fetch encoding data, so callers that cannot tolerate that should fall
// back to the estimator.
type TiktokenTokenizer struct {
	enc   *tiktoken.Tiktoken
	model string
}

// NewTiktokenTokenizer creates a tokenizer for the given model name
// (for example "gpt-4o" or "gpt-3.5-turbo").
func NewTiktokenTokenizer(model string) (*TiktokenTokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding for %q: %w", model, err)
	}
	return &TiktokenTokenizer{enc: enc, model: model}, nil
}

func (t *TiktokenTokenizer) CountTokens(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}
