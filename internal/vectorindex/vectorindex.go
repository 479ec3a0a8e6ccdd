// Package vectorindex stores chunk vectors and serves nearest-neighbor
// lookups. Two backends exist: an embedded sqlite store for local runs
// and a Qdrant collection for deployments with a real vector database.
package vectorindex

import (
	"context"
	"fmt"
)

// Metadata is the retrieval metadata carried alongside each chunk.
type Metadata struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Section  string `json:"section,omitempty"`
	Index    int    `json:"chunk_index"`
}

// Entry is one chunk to index.
type Entry struct {
	ID     string
	Vector []float32
	Text   string
	Meta   Metadata
}

// Hit is one search result. Distance is cosine distance, so smaller
// means closer.
type Hit struct {
	ID       string
	Text     string
	Meta     Metadata
	Distance float64
}

// Index is the storage contract shared by all backends.
type Index interface {
	// Init creates the backing collection or schema if needed.
	Init(ctx context.Context) error
	// Reset drops all indexed entries.
	Reset(ctx context.Context) error
	// Upsert writes entries, replacing any with the same ID.
	Upsert(ctx context.Context, entries []Entry) error
	// Search returns up to k nearest hits ordered by ascending distance.
	Search(ctx context.Context, vector []float32, k int) ([]Hit, error)
	// Count reports how many entries are indexed.
	Count(ctx context.Context) (int, error)
	Close() error
}

// StoreError wraps a backend failure so callers can tell storage faults
// apart from bad input.
type StoreError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s index: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
