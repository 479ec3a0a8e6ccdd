// Package tokenizer provides the token codec used for chunking.
// The codec is built once at startup and passed explicitly to anything
// that needs token counts or token windows; there is no hidden global.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Codec encodes text to a token-id sequence and decodes it back.
// Tokens are the unit of truth for chunk boundaries: decoding a token
// window yields valid text even when the window splits a word.
type Codec interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// Count returns the number of tokens in text under the given codec.
func Count(c Codec, text string) int {
	return len(c.Encode(text))
}

// Tiktoken is a Codec backed by the cl100k_base BPE encoding, the same
// encoder family used by the embedding model.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewCL100K builds the production codec. Construction loads the BPE
// tables and is comparatively slow; call it once and share the result.
func NewCL100K() (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &Tiktoken{enc: enc}, nil
}

func (t *Tiktoken) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *Tiktoken) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}
