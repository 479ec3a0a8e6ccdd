// Package qdrant is a thin REST client for a Qdrant collection,
// implementing the vector index contract. Only the handful of endpoints
// the pipeline needs are covered.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"

	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
)

// Client talks to one Qdrant collection.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	vectorSize int
	http       *http.Client
}

// New builds a client for the given collection. vectorSize must match
// the embedding model's output dimension.
func New(baseURL, apiKey, collection string, vectorSize int) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		vectorSize: vectorSize,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

type errorResponse struct {
	Status struct {
		Error string `json:"error"`
	} `json:"status"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.Status.Error != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, er.Status.Error)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) storeErr(op string, err error) error {
	return &vectorindex.StoreError{Backend: "qdrant", Op: op, Err: err}
}

// Init creates the collection if it does not already exist.
func (c *Client) Init(ctx context.Context) error {
	var exists struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodGet, "/collections/"+c.collection+"/exists", nil, &exists); err != nil {
		return c.storeErr("check collection", err)
	}
	if exists.Result.Exists {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.vectorSize,
			"distance": "Cosine",
		},
	}
	if err := c.do(ctx, http.MethodPut, "/collections/"+c.collection, body, nil); err != nil {
		return c.storeErr("create collection", err)
	}
	return nil
}

// Reset drops and recreates the collection.
func (c *Client) Reset(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/collections/"+c.collection, nil, nil); err != nil {
		return c.storeErr("delete collection", err)
	}
	return c.Init(ctx)
}

// pointID derives a numeric Qdrant point id from the chunk id. Qdrant
// only accepts integer or UUID ids, so the string id rides in the
// payload instead.
func pointID(id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}

type point struct {
	ID      uint64         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

func (c *Client) Upsert(ctx context.Context, entries []vectorindex.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	points := make([]point, len(entries))
	for i, e := range entries {
		points[i] = point{
			ID:     pointID(e.ID),
			Vector: e.Vector,
			Payload: map[string]any{
				"chunk_id":    e.ID,
				"text":        e.Text,
				"filename":    e.Meta.Filename,
				"title":       e.Meta.Title,
				"section":     e.Meta.Section,
				"chunk_index": e.Meta.Index,
			},
		}
	}

	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", c.collection)
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return c.storeErr("upsert points", err)
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

func (c *Client) Search(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp searchResponse
	path := "/collections/" + c.collection + "/points/search"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, c.storeErr("search", err)
	}

	hits := make([]vectorindex.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		h := vectorindex.Hit{
			// Qdrant reports cosine similarity as score.
			Distance: 1 - r.Score,
		}
		h.ID, _ = r.Payload["chunk_id"].(string)
		h.Text, _ = r.Payload["text"].(string)
		h.Meta.Filename, _ = r.Payload["filename"].(string)
		h.Meta.Title, _ = r.Payload["title"].(string)
		h.Meta.Section, _ = r.Payload["section"].(string)
		if idx, ok := r.Payload["chunk_index"].(float64); ok {
			h.Meta.Index = int(idx)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func (c *Client) Count(ctx context.Context) (int, error) {
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	path := "/collections/" + c.collection + "/points/count"
	if err := c.do(ctx, http.MethodPost, path, map[string]any{"exact": true}, &resp); err != nil {
		return 0, c.storeErr("count", err)
	}
	return resp.Result.Count, nil
}

func (c *Client) Close() error { return nil }
