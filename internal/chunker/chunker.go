// Package chunker splits documents into overlapping token windows sized
// for embedding. Windows are cut on token boundaries so every chunk stays
// under the embedding model's effective context.
package chunker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/quantic-msse0726/policy-rag-app/internal/loader"
	"github.com/quantic-msse0726/policy-rag-app/internal/tokenizer"
)

// MinTextChars is the document length below which ingestion warns that
// the source is probably too thin to retrieve from.
const MinTextChars = 500

// Chunk is one token window of a source document.
type Chunk struct {
	DocID      string // "<filename>::chunk<index>"
	Filename   string
	Title      string
	Section    string
	Index      int
	Text       string
	TokenCount int
}

// Config controls window sizing.
type Config struct {
	ChunkTokens   int
	OverlapTokens int
}

// Validate rejects degenerate window parameters before any splitting
// happens. An overlap at or above the window size would never advance.
func (c Config) Validate() error {
	if c.ChunkTokens <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkTokens)
	}
	if c.OverlapTokens < 0 {
		return fmt.Errorf("overlap must not be negative, got %d", c.OverlapTokens)
	}
	if c.OverlapTokens >= c.ChunkTokens {
		return fmt.Errorf("overlap %d must be smaller than chunk size %d", c.OverlapTokens, c.ChunkTokens)
	}
	return nil
}

// Split cuts text into overlapping token windows. Consecutive windows
// share OverlapTokens tokens, and the final window is allowed to be
// shorter than ChunkTokens. Empty or whitespace-only text yields nothing.
func Split(codec tokenizer.Codec, text string, cfg Config) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens := codec.Encode(text)
	n := len(tokens)
	if n == 0 {
		return nil, nil
	}

	step := cfg.ChunkTokens - cfg.OverlapTokens
	var out []string
	for start := 0; ; start += step {
		end := start + cfg.ChunkTokens
		if end > n {
			end = n
		}
		out = append(out, codec.Decode(tokens[start:end]))
		if end >= n {
			break
		}
	}
	return out, nil
}

// BuildChunks splits every document into chunks carrying retrieval
// metadata. Documents shorter than MinTextChars still chunk but log a
// warning so thin sources are visible at ingest time.
func BuildChunks(codec tokenizer.Codec, docs []loader.Document, cfg Config, log *slog.Logger) ([]Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var chunks []Chunk
	for _, doc := range docs {
		if len(doc.Text) < MinTextChars {
			log.Warn("document below minimum length",
				"filename", doc.Filename,
				"chars", len(doc.Text),
				"min_chars", MinTextChars)
		}

		title := doc.Title
		if title == "" {
			title = firstHeadingLine(doc.Text)
		}
		if title == "" {
			title = doc.Filename
		}

		parts, err := Split(codec, doc.Text, cfg)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", doc.Filename, err)
		}
		docTokens := 0
		for i, part := range parts {
			section := lastHeadingLine(part)
			count := tokenizer.Count(codec, part)
			docTokens += count
			chunks = append(chunks, Chunk{
				DocID:      fmt.Sprintf("%s::chunk%d", doc.Filename, i),
				Filename:   doc.Filename,
				Title:      title,
				Section:    section,
				Index:      i,
				Text:       part,
				TokenCount: count,
			})
		}
		log.Info("chunked document",
			"filename", doc.Filename,
			"chunks", len(parts),
			"chars", len(doc.Text),
			"tokens", docTokens)
	}
	return chunks, nil
}
