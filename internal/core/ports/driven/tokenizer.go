package driven

// Tokenizer wraps a fixed tokenization scheme. Implementations must be
// deterministic: identical input always yields identical output,
// across platforms. Text the scheme cannot represent yields a wrapped
// domain.ErrTokenization.
type Tokenizer interface {
	// Count returns the number of tokens in text.
	Count(text string) (int, error)

	// Encode converts text to its token sequence.
	Encode(text string) ([]int, error)

	// Decode converts a token sequence back to text. Decoding a
	// prefix of Encode's output yields the corresponding text prefix.
	Decode(tokens []int) (string, error)

	// Truncate returns a prefix of text holding at most maxTokens
	// tokens under the scheme's encode/decode round trip.
	Truncate(text string, maxTokens int) (string, error)
}
