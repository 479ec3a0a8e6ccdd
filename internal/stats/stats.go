// Package stats tracks chat answer latencies within a rolling window and
// serves percentile snapshots for the stats endpoint and the eval report.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// Snapshot is a point-in-time aggregate of answer latency samples.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// AnswerStats tracks recent answer latencies within a rolling window.
type AnswerStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewAnswerStats(maxAge time.Duration) *AnswerStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &AnswerStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

func (s *AnswerStats) Record(durationMs int64) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationMs: durationMs,
	})
}

func (s *AnswerStats) Snapshot() Snapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return Snapshot{}
	}

	values := make([]int64, len(s.samples))
	var sum int64
	for i, sm := range s.samples {
		values[i] = sm.durationMs
		sum += sm.durationMs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: Percentile(values, 50),
		P95Ms: Percentile(values, 95),
		P99Ms: Percentile(values, 99),
	}
}

// pruneLocked drops samples older than the window. Record appends in
// time order, so everything expired sits in a prefix.
func (s *AnswerStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	keep := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].timestamp.Before(cutoff)
	})
	if keep > 0 {
		s.samples = s.samples[:copy(s.samples, s.samples[keep:])]
	}
}

// Percentile interpolates the pct-th percentile of sortedValues, which
// must be sorted ascending.
func Percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
