// Package tokenizer turns text into token ids for the embedding layer.
//
// Two implementations are provided:
//   - TikToken: OpenAI BPE encodings (cl100k_base, p50k_base, r50k_base)
//     via github.com/pkoukk/tiktoken-go. The BPE ranks are fetched on first
//     use and cached by tiktoken-go.
//   - Bytes: UTF-8 byte-level tokenizer with a 256-entry vocabulary that
//     needs no external data.
//
// Example usage:
//
//	tok, err := tokenizer.New("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := tok.Encode("Hello, world!")
package tokenizer
