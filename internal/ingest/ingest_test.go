package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantic-msse0726/policy-rag-app/internal/chunker"
	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
)

// runeCodec maps each rune to one token so chunk sizing is predictable
// without a real tokenizer.
type runeCodec struct{}

func (runeCodec) Encode(s string) []int {
	out := make([]int, 0, len(s))
	for _, r := range s {
		out = append(out, int(r))
	}
	return out
}

func (runeCodec) Decode(ids []int) string {
	var b strings.Builder
	for _, id := range ids {
		b.WriteRune(rune(id))
	}
	return b.String()
}

type fakeEmbedder struct{ err error }

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

type fakeIndex struct {
	entries  map[string]vectorindex.Entry
	resets   int
	inits    int
	resetErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{entries: make(map[string]vectorindex.Entry)}
}

func (f *fakeIndex) Init(context.Context) error { f.inits++; return nil }
func (f *fakeIndex) Reset(context.Context) error {
	f.resets++
	f.entries = make(map[string]vectorindex.Entry)
	return f.resetErr
}
func (f *fakeIndex) Upsert(_ context.Context, entries []vectorindex.Entry) error {
	for _, e := range entries {
		f.entries[e.ID] = e
	}
	return nil
}
func (f *fakeIndex) Search(context.Context, []float32, int) ([]vectorindex.Hit, error) {
	return nil, nil
}
func (f *fakeIndex) Count(context.Context) (int, error) { return len(f.entries), nil }
func (f *fakeIndex) Close() error                       { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun_IngestsDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "expenses.md", "# Expense Policy\nEmployees may claim up to $50 per day for meals.")
	writeDoc(t, dir, "travel.txt", "Travel must be booked 14 days ahead.")

	idx := newFakeIndex()
	p := New(runeCodec{}, &fakeEmbedder{}, idx, chunker.Config{ChunkTokens: 40, OverlapTokens: 10}, testLogger())

	summary, err := p.Run(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.DocumentsLoaded != 2 {
		t.Errorf("documents loaded = %d, want 2", summary.DocumentsLoaded)
	}
	if summary.Chunks != len(idx.entries) {
		t.Errorf("summary chunks %d != indexed %d", summary.Chunks, len(idx.entries))
	}
	if summary.Rebuilt {
		t.Error("rebuild flag must be false")
	}
	if idx.inits != 1 || idx.resets != 0 {
		t.Errorf("expected init without reset, got inits=%d resets=%d", idx.inits, idx.resets)
	}

	e, ok := idx.entries["expenses.md::chunk0"]
	if !ok {
		t.Fatalf("missing first chunk entry, have %v", idx.entries)
	}
	if e.Meta.Title != "Expense Policy" {
		t.Errorf("entry title = %q", e.Meta.Title)
	}
	if len(e.Vector) == 0 {
		t.Error("entry must carry a vector")
	}
}

func TestRun_RebuildResetsIndex(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "short policy text body")

	idx := newFakeIndex()
	idx.entries["stale::chunk0"] = vectorindex.Entry{ID: "stale::chunk0"}

	p := New(runeCodec{}, &fakeEmbedder{}, idx, chunker.Config{ChunkTokens: 40, OverlapTokens: 10}, testLogger())
	summary, err := p.Run(context.Background(), dir, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Rebuilt {
		t.Error("summary must record the rebuild")
	}
	if idx.resets != 1 {
		t.Errorf("resets = %d, want 1", idx.resets)
	}
	if _, ok := idx.entries["stale::chunk0"]; ok {
		t.Error("stale entries must not survive a rebuild")
	}
}

func TestRun_EmptyDirFails(t *testing.T) {
	p := New(runeCodec{}, &fakeEmbedder{}, newFakeIndex(), chunker.Config{ChunkTokens: 40, OverlapTokens: 10}, testLogger())
	_, err := p.Run(context.Background(), t.TempDir(), false)
	if err == nil {
		t.Fatal("expected error for directory with no documents")
	}
}

func TestRun_EmbedderFailureAborts(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "some policy text")

	wantErr := errors.New("quota exceeded")
	idx := newFakeIndex()
	p := New(runeCodec{}, &fakeEmbedder{err: wantErr}, idx, chunker.Config{ChunkTokens: 40, OverlapTokens: 10}, testLogger())

	_, err := p.Run(context.Background(), dir, false)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected embedder error, got %v", err)
	}
	if len(idx.entries) != 0 {
		t.Error("nothing must be indexed when embedding fails")
	}
}
