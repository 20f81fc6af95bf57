package model

import (
	"context"
	"sort"
	"sync"
	"time"
)

type call struct {
	at         time.Time
	durationMs int64
	failed     bool
}

// StatsSnapshot aggregates the model calls still inside the window.
type StatsSnapshot struct {
	Backend  string  `json:"backend"`
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Stats keeps per-call latency and outcome for a rolling window.
type Stats struct {
	mu      sync.Mutex
	backend string
	calls   []call
	window  time.Duration
}

func NewStats(backend string, window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		backend: backend,
		calls:   make([]call, 0, 256),
		window:  window,
	}
}

func (s *Stats) Record(d time.Duration, err error) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.calls = append(s.calls, call{at: now, durationMs: ms, failed: err != nil})
}

// Snapshot reports latency percentiles over every call in the window,
// failed ones included.
func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	snap := StatsSnapshot{Backend: s.backend}
	if len(s.calls) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.calls))
	var sum int64
	for _, c := range s.calls {
		values = append(values, c.durationMs)
		sum += c.durationMs
		if c.failed {
			snap.Failures++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	kept := s.calls[:0]
	for _, c := range s.calls {
		if !c.at.Before(cutoff) {
			kept = append(kept, c)
		}
	}
	s.calls = kept
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	rank := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo := float64(sorted[lower])
	hi := float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}

// Observer receives the outcome of every model call.
type Observer func(backend string, d time.Duration, err error)

type instrumented struct {
	next     Model
	stats    *Stats
	observer Observer
}

// Instrument wraps m so each Summarize call is timed into stats and, when
// set, reported to obs.
func Instrument(m Model, stats *Stats, obs Observer) Model {
	return &instrumented{next: m, stats: stats, observer: obs}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Summarize(ctx context.Context, text string, p Params) (string, error) {
	start := time.Now()
	out, err := i.next.Summarize(ctx, text, p)
	d := time.Since(start)
	if i.stats != nil {
		i.stats.Record(d, err)
	}
	if i.observer != nil {
		i.observer(i.next.Name(), d, err)
	}
	return out, err
}
