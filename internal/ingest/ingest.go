// Package ingest builds the vector index from a directory of policy
// documents. It is an offline batch flow with a single writer; it must
// not run concurrently against the same index.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantic-msse0726/policy-rag-app/internal/chunker"
	"github.com/quantic-msse0726/policy-rag-app/internal/embedding"
	"github.com/quantic-msse0726/policy-rag-app/internal/loader"
	"github.com/quantic-msse0726/policy-rag-app/internal/tokenizer"
	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
)

// Summary reports what one ingestion run did.
type Summary struct {
	DocumentsFound  int           `json:"documents_found"`
	DocumentsLoaded int           `json:"documents_loaded"`
	Chunks          int           `json:"chunks"`
	Rebuilt         bool          `json:"rebuilt"`
	Elapsed         time.Duration `json:"-"`
}

// Pipeline runs load, chunk, embed and index steps sequentially.
type Pipeline struct {
	codec    tokenizer.Codec
	embedder embedding.Embedder
	index    vectorindex.Index
	cfg      chunker.Config
	log      *slog.Logger
}

func New(codec tokenizer.Codec, embedder embedding.Embedder, index vectorindex.Index, cfg chunker.Config, log *slog.Logger) *Pipeline {
	return &Pipeline{codec: codec, embedder: embedder, index: index, cfg: cfg, log: log}
}

// Run ingests every supported document under docsDir. With rebuild set
// the existing index is dropped first; otherwise entries are upserted
// over what is already there.
func (p *Pipeline) Run(ctx context.Context, docsDir string, rebuild bool) (*Summary, error) {
	start := time.Now()

	docs, stats, err := loader.LoadDir(docsDir, p.log)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no supported documents found in %s", docsDir)
	}

	chunks, err := chunker.BuildChunks(p.codec, docs, p.cfg, p.log)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("documents in %s produced no chunks", docsDir)
	}

	if rebuild {
		if err := p.index.Reset(ctx); err != nil {
			return nil, err
		}
	} else if err := p.index.Init(ctx); err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	p.log.Info("embedding chunks", "count", len(texts))
	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	entries := make([]vectorindex.Entry, len(chunks))
	for i, c := range chunks {
		entries[i] = vectorindex.Entry{
			ID:     c.DocID,
			Vector: vectors[i],
			Text:   c.Text,
			Meta: vectorindex.Metadata{
				Filename: c.Filename,
				Title:    c.Title,
				Section:  c.Section,
				Index:    c.Index,
			},
		}
	}
	if err := p.index.Upsert(ctx, entries); err != nil {
		return nil, err
	}

	summary := &Summary{
		DocumentsFound:  stats.Discovered,
		DocumentsLoaded: stats.Loaded,
		Chunks:          len(chunks),
		Rebuilt:         rebuild,
		Elapsed:         time.Since(start),
	}
	p.log.Info("ingestion complete",
		"documents", summary.DocumentsLoaded,
		"chunks", summary.Chunks,
		"rebuilt", summary.Rebuilt,
		"elapsed", summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}
