// Package token counts tokens for planning chunk budgets.
package token

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// modelEncodings maps known model identifiers to their tokenizer encodings.
// Any model absent from this registry is counted with the fallback encoding.
var modelEncodings = map[string]tokenizer.Encoding{
	"gpt-4o":        tokenizer.O200kBase,
	"gpt-4o-mini":   tokenizer.O200kBase,
	"gpt-4":         tokenizer.Cl100kBase,
	"gpt-4-turbo":   tokenizer.Cl100kBase,
	"gpt-3.5-turbo": tokenizer.Cl100kBase,
}

// FallbackEncoding is used for models not present in the registry.
const FallbackEncoding = tokenizer.Cl100kBase

// Counter is a pure token-count oracle. It holds pre-built codecs so that
// Count never allocates a vocabulary per call; it keeps no per-text state.
type Counter struct {
	codecs   map[tokenizer.Encoding]tokenizer.Codec
	fallback tokenizer.Codec
}

// NewCounter builds codecs for every registered encoding plus the fallback.
func NewCounter() (*Counter, error) {
	codecs := make(map[tokenizer.Encoding]tokenizer.Codec)

	fallback, err := tokenizer.Get(FallbackEncoding)
	if err != nil {
		return nil, fmt.Errorf("load fallback encoding: %w", err)
	}
	codecs[FallbackEncoding] = fallback

	for _, enc := range modelEncodings {
		if _, ok := codecs[enc]; ok {
			continue
		}
		codec, err := tokenizer.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("load encoding %s: %w", enc, err)
		}
		codecs[enc] = codec
	}

	return &Counter{codecs: codecs, fallback: fallback}, nil
}

// Count returns the number of tokens in text under the encoding registered
// for model, or under the fallback encoding for unknown models.
func (c *Counter) Count(text, model string) int {
	if text == "" {
		return 0
	}
	codec := c.fallback
	if enc, ok := modelEncodings[model]; ok {
		codec = c.codecs[enc]
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		// BPE encoding does not fail on valid UTF-8; estimate if it ever does.
		return (len(text) + 3) / 4
	}
	return len(ids)
}
