// Package tiktoken adapts the tiktoken-go BPE tokenizer to the
// driven.Tokenizer port. It pins the cl100k_base encoding so token
// counts are identical across platforms and runs.
package tiktoken

import (
	"fmt"
	"unicode/utf8"

	tkt "github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/core/ports/driven"
)

// encodingName is fixed: chunk token counts feed deterministic chunk
// boundaries, so the scheme is not configurable per run.
const encodingName = "cl100k_base"

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

// Tokenizer wraps a tiktoken encoding.
type Tokenizer struct {
	enc *tkt.Tiktoken
}

// New creates a cl100k_base tokenizer.
func New() (*Tokenizer, error) {
	enc, err := tkt.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("loading %s encoding: %w", encodingName, err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) (int, error) {
	tokens, err := t.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(tokens), nil
}

// Encode converts text to its token sequence. Invalid UTF-8 is not
// representable under the scheme and fails with ErrTokenization.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("text is not valid UTF-8: %w", domain.ErrTokenization)
	}
	return t.enc.Encode(text, nil, nil), nil
}

// Decode converts a token sequence back to text.
func (t *Tokenizer) Decode(tokens []int) (string, error) {
	return t.enc.Decode(tokens), nil
}

// Truncate returns the prefix of text holding at most maxTokens
// tokens under the encode/decode round trip.
func (t *Tokenizer) Truncate(text string, maxTokens int) (string, error) {
	if maxTokens < 0 {
		return "", fmt.Errorf("max tokens must be non-negative, got %d: %w", maxTokens, domain.ErrInvalidInput)
	}
	tokens, err := t.Encode(text)
	if err != nil {
		return "", err
	}
	if len(tokens) <= maxTokens {
		return text, nil
	}
	return t.Decode(tokens[:maxTokens])
}
