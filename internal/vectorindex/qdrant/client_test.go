package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
)

func TestClient_InitCreatesMissingCollection(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/policies/exists":
			json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"exists": false}})
		case r.Method == http.MethodPut && r.URL.Path == "/collections/policies":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			vectors := body["vectors"].(map[string]any)
			assert.Equal(t, float64(3), vectors["size"])
			assert.Equal(t, "Cosine", vectors["distance"])
			created = true
			json.NewEncoder(w).Encode(map[string]any{"result": true})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "", "policies", 3)
	require.NoError(t, c.Init(context.Background()))
	assert.True(t, created)
}

func TestClient_UpsertSendsNumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/collections/policies/points", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "secret", r.Header.Get("api-key"))

		var body struct {
			Points []struct {
				ID      uint64         `json:"id"`
				Vector  []float32      `json:"vector"`
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Points, 1)
		assert.Equal(t, pointID("doc.md::chunk0"), body.Points[0].ID)
		assert.Equal(t, "doc.md::chunk0", body.Points[0].Payload["chunk_id"])
		assert.Equal(t, "chunk text", body.Points[0].Payload["text"])
		json.NewEncoder(w).Encode(map[string]any{"result": true})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret", "policies", 3)
	err := c.Upsert(context.Background(), []vectorindex.Entry{{
		ID:     "doc.md::chunk0",
		Vector: []float32{1, 0, 0},
		Text:   "chunk text",
		Meta:   vectorindex.Metadata{Filename: "doc.md", Title: "Doc"},
	}})
	require.NoError(t, err)
}

func TestClient_SearchMapsScoreToDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/policies/points/search", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"score": 0.9,
					"payload": map[string]any{
						"chunk_id":    "a.md::chunk1",
						"text":        "hit text",
						"filename":    "a.md",
						"title":       "A",
						"section":     "Limits",
						"chunk_index": 1,
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "policies", 3)
	hits, err := c.Search(context.Background(), []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "a.md::chunk1", hits[0].ID)
	assert.Equal(t, "hit text", hits[0].Text)
	assert.Equal(t, "a.md", hits[0].Meta.Filename)
	assert.Equal(t, "Limits", hits[0].Meta.Section)
	assert.Equal(t, 1, hits[0].Meta.Index)
	assert.InDelta(t, 0.1, hits[0].Distance, 1e-9)
}

func TestClient_ErrorStatusBecomesStoreError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[string]any{"error": "collection missing"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "", "policies", 3)
	_, err := c.Search(context.Background(), []float32{1}, 5)
	require.Error(t, err)

	var se *vectorindex.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "qdrant", se.Backend)
	assert.Contains(t, err.Error(), "collection missing")
}

func TestPointID_Deterministic(t *testing.T) {
	assert.Equal(t, pointID("x"), pointID("x"))
	assert.NotEqual(t, pointID("x"), pointID("y"))
}
