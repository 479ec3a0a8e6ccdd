// Package sqlitevec is an embedded vector index on sqlite. Vectors live
// as little-endian float32 blobs and search is a brute-force cosine
// scan, which is plenty for a corpus of policy documents.
package sqlitevec

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	title       TEXT NOT NULL,
	section     TEXT NOT NULL DEFAULT '',
	chunk_index INTEGER NOT NULL,
	text        TEXT NOT NULL,
	vector      BLOB NOT NULL
);
`

// Store is a sqlite-backed vector index. It expects a single writer;
// concurrent reads are fine.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &vectorindex.StoreError{Backend: "sqlite", Op: "open", Err: err}
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, &vectorindex.StoreError{Backend: "sqlite", Op: "set journal mode", Err: err}
	}
	return &Store{db: db}, nil
}

func (s *Store) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &vectorindex.StoreError{Backend: "sqlite", Op: "create schema", Err: err}
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return &vectorindex.StoreError{Backend: "sqlite", Op: "reset", Err: err}
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, entries []vectorindex.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &vectorindex.StoreError{Backend: "sqlite", Op: "begin tx", Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, filename, title, section, chunk_index, text, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			title = excluded.title,
			section = excluded.section,
			chunk_index = excluded.chunk_index,
			text = excluded.text,
			vector = excluded.vector`)
	if err != nil {
		return &vectorindex.StoreError{Backend: "sqlite", Op: "prepare upsert", Err: err}
	}
	defer stmt.Close()

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Meta.Filename, e.Meta.Title, e.Meta.Section,
			e.Meta.Index, e.Text, encodeVector(e.Vector))
		if err != nil {
			return &vectorindex.StoreError{Backend: "sqlite", Op: fmt.Sprintf("upsert %s", e.ID), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &vectorindex.StoreError{Backend: "sqlite", Op: "commit", Err: err}
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorindex.Hit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, title, section, chunk_index, text, vector FROM chunks`)
	if err != nil {
		return nil, &vectorindex.StoreError{Backend: "sqlite", Op: "scan", Err: err}
	}
	defer rows.Close()

	var hits []vectorindex.Hit
	for rows.Next() {
		var h vectorindex.Hit
		var blob []byte
		if err := rows.Scan(&h.ID, &h.Meta.Filename, &h.Meta.Title, &h.Meta.Section,
			&h.Meta.Index, &h.Text, &blob); err != nil {
			return nil, &vectorindex.StoreError{Backend: "sqlite", Op: "scan row", Err: err}
		}
		stored, err := decodeVector(blob)
		if err != nil {
			return nil, &vectorindex.StoreError{Backend: "sqlite", Op: fmt.Sprintf("decode vector %s", h.ID), Err: err}
		}
		h.Distance = cosineDistance(vector, stored)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, &vectorindex.StoreError{Backend: "sqlite", Op: "scan", Err: err}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n)
	if err != nil {
		return 0, &vectorindex.StoreError{Backend: "sqlite", Op: "count", Err: err}
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
