// Package retriever turns a question into an ordered set of evidence
// contexts. Nearest-neighbor hits from the vector index are re-ranked by
// keyword overlap, annotated with evidence snippets, and gated by a
// refusal guardrail before any generation happens.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/quantic-msse0726/policy-rag-app/internal/embedding"
	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
)

// DefaultK is how many chunks a query pulls from the index.
const DefaultK = 6

// Context is one retrieved chunk prepared for answering. Instances live
// for a single request.
type Context struct {
	DocID      string
	Title      string
	Section    string
	ChunkIndex int
	Snippet    string
	Text       string
	Distance   float64
}

// Retriever runs embedding lookup, nearest-neighbor search, snippet
// extraction and keyword re-ranking.
type Retriever struct {
	embedder embedding.Embedder
	index    vectorindex.Index
	k        int
	log      *slog.Logger
}

func New(embedder embedding.Embedder, index vectorindex.Index, k int, log *slog.Logger) *Retriever {
	if k <= 0 {
		k = DefaultK
	}
	return &Retriever{embedder: embedder, index: index, k: k, log: log}
}

// Retrieve returns the top chunks for query, most relevant first. The
// final order is keyword hits descending with vector distance as the tie
// break. Failures from the embedder or the index propagate; partial
// results are never returned.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Context, error) {
	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, &embedding.ServiceError{
			Op:  "embed query",
			Err: fmt.Errorf("got %d vectors for 1 input", len(vecs)),
		}
	}

	hits, err := r.index.Search(ctx, vecs[0], r.k)
	if err != nil {
		return nil, err
	}

	results := make([]Context, len(hits))
	for i, h := range hits {
		// The index entry id is chunk-level; doc_id is the document key,
		// paired with ChunkIndex for chunk identity.
		results[i] = Context{
			DocID:      h.Meta.Filename,
			Title:      h.Meta.Title,
			Section:    h.Meta.Section,
			ChunkIndex: h.Meta.Index,
			Snippet:    ExtractEvidence(h.Text, query),
			Text:       h.Text,
			Distance:   h.Distance,
		}
	}

	Rerank(results, query)

	if len(results) > 0 {
		r.log.Debug("retrieved chunks",
			"count", len(results),
			"best_distance", results[0].Distance,
			"query_len", len(query))
	}
	return results, nil
}

// Rerank reorders results in place by keyword hits against the full
// chunk text, descending, breaking ties by distance ascending. Keyword
// overlap beats raw embedding distance for short policy questions.
func Rerank(results []Context, question string) {
	keywords := ExtractKeywords(question)
	scores := make([]int, len(results))
	for i := range results {
		scores[i] = keywordScore(results[i].Text, keywords)
	}
	indexed := make([]int, len(results))
	for i := range indexed {
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		i, j := indexed[a], indexed[b]
		if scores[i] != scores[j] {
			return scores[i] > scores[j]
		}
		return results[i].Distance < results[j].Distance
	})

	reordered := make([]Context, len(results))
	for pos, i := range indexed {
		reordered[pos] = results[i]
	}
	copy(results, reordered)
}
