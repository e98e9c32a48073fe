package tokenizer

import "strings"

// Tokenizer is the interface implemented by every tokenizer in this package.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int

	// Name returns the encoding name.
	Name() string
}

// EncodingBytes selects the byte-level tokenizer in New.
const EncodingBytes = "bytes"

// New returns the tokenizer for an encoding name: "bytes" or any encoding
// supported by NewTikToken.
func New(encoding string) (Tokenizer, error) {
	if strings.EqualFold(encoding, EncodingBytes) {
		return Bytes{}, nil
	}
	return NewTikToken(encoding)
}
