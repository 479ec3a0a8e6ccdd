package eval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/quantic-msse0726/policy-rag-app/internal/answer"
	"github.com/quantic-msse0726/policy-rag-app/internal/stats"
)

// Record is one evaluated question, appended to the results file.
type Record struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Question   string            `json:"question"`
	Answer     string            `json:"answer"`
	Citations  []answer.Citation `json:"citations"`
	Snippets   []string          `json:"snippets"`
	LatencyMS  int64             `json:"latency_ms"`
	GroundedOK bool              `json:"grounded_ok"`
	CitationOK bool              `json:"citation_ok"`
	Timestamp  string            `json:"timestamp"`
}

// Report aggregates one eval run.
type Report struct {
	Total               int
	GroundednessPct     float64
	CitationAccuracyPct float64
	LatencyP50Ms        float64
	LatencyP95Ms        float64
}

// Runner drives the chat endpoint through the full question set.
type Runner struct {
	chatURL string
	client  *http.Client
	log     *slog.Logger
}

func NewRunner(chatURL string, log *slog.Logger) *Runner {
	return &Runner{
		chatURL: chatURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

func (r *Runner) callChat(ctx context.Context, question string) (*answer.Response, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.chatURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call chat endpoint: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat endpoint returned status %d", resp.StatusCode)
	}

	var out answer.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &out, nil
}

// Run evaluates every question and appends one record per question to
// resultsPath.
func (r *Runner) Run(ctx context.Context, questionsPath, resultsPath string) (*Report, error) {
	questions, err := LoadQuestions(questionsPath)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions found in %s", questionsPath)
	}

	out, err := os.OpenFile(resultsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)

	groundedCount := 0
	citationCount := 0
	latencies := make([]int64, 0, len(questions))

	for i, q := range questions {
		resp, err := r.callChat(ctx, q.Question)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}

		var groundedOk, citationOk bool
		if q.Type == "answerable" {
			groundedOk, citationOk = ScoreAnswerable(resp)
		} else {
			groundedOk, citationOk = ScoreUnanswerable(resp)
		}
		if groundedOk {
			groundedCount++
		}
		if citationOk {
			citationCount++
		}
		latencies = append(latencies, resp.LatencyMS)

		rec := Record{
			ID:         q.ID,
			Type:       q.Type,
			Question:   q.Question,
			Answer:     resp.Answer,
			Citations:  resp.Citations,
			Snippets:   resp.Snippets,
			LatencyMS:  resp.LatencyMS,
			GroundedOK: groundedOk,
			CitationOK: citationOk,
			Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("write result: %w", err)
		}

		r.log.Info("evaluated question",
			"id", q.ID,
			"progress", fmt.Sprintf("%d/%d", i+1, len(questions)),
			"grounded_ok", groundedOk,
			"citation_ok", citationOk,
			"latency_ms", resp.LatencyMS)
	}

	total := len(questions)
	sorted := append([]int64(nil), latencies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &Report{
		Total:               total,
		GroundednessPct:     float64(groundedCount) / float64(total) * 100,
		CitationAccuracyPct: float64(citationCount) / float64(total) * 100,
		LatencyP50Ms:        stats.Percentile(sorted, 50),
		LatencyP95Ms:        stats.Percentile(sorted, 95),
	}, nil
}
