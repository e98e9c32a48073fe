package tokenizer

import "fmt"

// Bytes tokenizes text into its UTF-8 bytes: one token per byte, ids 0..255.
type Bytes struct{}

// Encode returns the bytes of text as token IDs.
func (Bytes) Encode(text string) ([]int32, error) {
	ids := make([]int32, len(text))
	for i := 0; i < len(text); i++ {
		ids[i] = int32(text[i])
	}
	return ids, nil
}

// Decode reassembles the bytes. Returns an error for ids outside 0..255.
func (Bytes) Decode(tokens []int32) (string, error) {
	buf := make([]byte, len(tokens))
	for i, tok := range tokens {
		if tok < 0 || tok > 255 {
			return "", fmt.Errorf("token %d at position %d is not a byte", tok, i)
		}
		buf[i] = byte(tok)
	}
	return string(buf), nil
}

// VocabSize returns 256.
func (Bytes) VocabSize() int { return 256 }

// Name returns "bytes".
func (Bytes) Name() string { return EncodingBytes }
