// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer turns text into token ids for nn.Embedding.
//
// Supported tokenizers:
//   - TikToken: OpenAI BPE encodings (cl100k_base, p50k_base, r50k_base)
//   - Bytes: UTF-8 byte-level, 256 ids, no external data
//
// Example usage:
//
//	import "github.com/born-ml/mha/tokenizer"
//
//	tok, err := tokenizer.New("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := tok.Encode("Hello, world!")
//	text, err := tok.Decode(ids)
package tokenizer

import (
	"github.com/born-ml/mha/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// TikToken wraps OpenAI's tiktoken BPE encodings.
type TikToken = tokenizer.TikToken

// Bytes is the byte-level tokenizer.
type Bytes = tokenizer.Bytes

// EncodingBytes selects the byte-level tokenizer in New.
const EncodingBytes = tokenizer.EncodingBytes

// New returns the tokenizer for an encoding name.
func New(encoding string) (Tokenizer, error) {
	return tokenizer.New(encoding)
}

// NewTikToken creates a TikToken tokenizer with the specified encoding.
//
// Supported encodings: "cl100k_base" (GPT-4), "p50k_base", "r50k_base" (GPT-3).
func NewTikToken(encoding string) (*TikToken, error) {
	return tokenizer.NewTikToken(encoding)
}
