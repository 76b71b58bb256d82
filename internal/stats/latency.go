// Package stats keeps rolling render latencies and payload failure counts
// for the stats endpoint.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at time.Time
	ms int64
}

// LatencySnapshot aggregates the samples inside the window.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency tracks durations recorded within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

func (l *Latency) Record(d time.Duration) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)
	l.samples = append(l.samples, sample{at: now, ms: ms})
}

func (l *Latency) Snapshot() LatencySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(l.now())
	if len(l.samples) == 0 {
		return LatencySnapshot{}
	}

	values := make([]int64, 0, len(l.samples))
	var sum int64
	for _, s := range l.samples {
		values = append(values, s.ms)
		sum += s.ms
	}
	slices.Sort(values)

	return LatencySnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	l.samples = slices.DeleteFunc(l.samples, func(s sample) bool {
		return s.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the two nearest ranks.
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

	index := float64(len(sorted)-1) * pct / 100.0
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}
