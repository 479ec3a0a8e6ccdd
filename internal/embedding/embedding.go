// Package embedding turns text into vectors through the OpenAI embeddings
// API. The retriever and ingest pipeline only ever see the Embedder
// interface.
package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// batchSize caps how many inputs go into one API call.
const batchSize = 100

// Embedder produces one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ServiceError wraps a failure talking to the embedding backend so the
// API layer can map it to an upstream failure instead of a server bug.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("embedding service: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client embeds text through the OpenAI API.
type Client struct {
	api   *openai.Client
	model openai.EmbeddingModel
}

// NewClient builds an embedding client. baseURL overrides the API
// endpoint when non-empty, which keeps compatible gateways usable.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: openai.EmbeddingModel(model),
	}
}

// Embed returns one vector per input, batching requests so no single
// call exceeds the API input limit. Order is preserved across batches.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: c.model,
		})
		if err != nil {
			return nil, &ServiceError{Op: "create embeddings", Err: err}
		}
		if len(resp.Data) != end-start {
			return nil, &ServiceError{
				Op:  "create embeddings",
				Err: fmt.Errorf("got %d vectors for %d inputs", len(resp.Data), end-start),
			}
		}
		for _, d := range resp.Data {
			out = append(out, d.Embedding)
		}
	}
	return out, nil
}

// EmbedOne embeds a single query string.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}
