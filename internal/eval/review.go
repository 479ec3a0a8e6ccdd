package eval

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
)

var reviewHeader = []string{
	"id",
	"type",
	"question",
	"answer",
	"citations_count",
	"auto_grounded_ok",
	"auto_citation_ok",
	"human_grounded_ok",
	"human_citation_ok",
	"notes",
}

func loadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parse results: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return records, nil
}

// latestByQuestion keeps each question's most recent record, ordered by
// question id.
func latestByQuestion(records []Record) []Record {
	latest := make(map[string]Record)
	for _, r := range records {
		if prev, ok := latest[r.ID]; !ok || r.Timestamp > prev.Timestamp {
			latest[r.ID] = r
		}
	}
	ids := make([]string, 0, len(latest))
	for id := range latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Record, len(ids))
	for i, id := range ids {
		out[i] = latest[id]
	}
	return out
}

// ExportReview writes a manual-adjudication CSV sampled from the latest
// result per question. The same seed always selects the same rows.
func ExportReview(resultsPath, outPath string, sampleSize int, seed int64) (int, error) {
	records, err := loadRecords(resultsPath)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("no rows found in %s, run eval first", resultsPath)
	}

	latest := latestByQuestion(records)
	if sampleSize > len(latest) {
		sampleSize = len(latest)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(latest))
	sample := make([]Record, sampleSize)
	for i := 0; i < sampleSize; i++ {
		sample[i] = latest[perm[i]]
	}

	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create review csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(reviewHeader); err != nil {
		return 0, err
	}
	for _, r := range sample {
		row := []string{
			r.ID,
			r.Type,
			r.Question,
			r.Answer,
			strconv.Itoa(len(r.Citations)),
			strconv.FormatBool(r.GroundedOK),
			strconv.FormatBool(r.CitationOK),
			"",
			"",
			"",
		}
		if err := w.Write(row); err != nil {
			return 0, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("write review csv: %w", err)
	}
	return sampleSize, nil
}
