package stats

import (
	"maps"
	"sync"
	"time"

	"github.com/dgallion1/lessonrender/internal/lesson"
)

// Snapshot is the payload of the render stats endpoint.
type Snapshot struct {
	Render    LatencySnapshot           `json:"render"`
	Documents int64                     `json:"documents"`
	Payloads  int64                     `json:"payloads"`
	Failures  map[string]map[string]int `json:"failures"`
	Failed    int64                     `json:"failed_total"`
}

// Render collects render timings and payload outcomes. It satisfies
// lesson.FailureSink so it can be handed to a lesson.Parser directly.
type Render struct {
	latency *Latency

	mu        sync.Mutex
	documents int64
	payloads  int64
	failed    int64
	failures  map[string]map[string]int
}

func NewRender(window time.Duration) *Render {
	return &Render{
		latency:  NewLatency(window),
		failures: make(map[string]map[string]int),
	}
}

// Observe records one rendered document.
func (r *Render) Observe(d time.Duration, summary lesson.Summary) {
	r.latency.Record(d)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents++
	r.payloads += int64(summary.Payloads)
}

// PayloadFailed counts a failure by payload kind and reason.
func (r *Render) PayloadFailed(kind lesson.PayloadKind, _ string, err error) {
	reason := lesson.Reason(err)
	if reason == "" {
		reason = "unknown"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	byReason, ok := r.failures[string(kind)]
	if !ok {
		byReason = make(map[string]int)
		r.failures[string(kind)] = byReason
	}
	byReason[reason]++
	r.failed++
}

func (r *Render) Snapshot() Snapshot {
	snap := Snapshot{Render: r.latency.Snapshot()}

	r.mu.Lock()
	defer r.mu.Unlock()
	snap.Documents = r.documents
	snap.Payloads = r.payloads
	snap.Failed = r.failed
	snap.Failures = make(map[string]map[string]int, len(r.failures))
	for kind, byReason := range r.failures {
		snap.Failures[kind] = maps.Clone(byReason)
	}
	return snap
}
