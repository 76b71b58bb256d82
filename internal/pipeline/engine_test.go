package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/lessonrender/internal/cache"
	"github.com/dgallion1/lessonrender/internal/render"
	"github.com/dgallion1/lessonrender/internal/stats"
)

const sampleLesson = "**Photosynthesis**\n\n" +
	"### Inputs\n\n" +
	"* Light\n* Water\n\n" +
	"[TABLE_DATA]{\"headers\":[\"Input\",\"Source\"],\"rows\":[[\"CO2\",\"Air\"]]}[/TABLE_DATA]"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine() (*Engine, *cache.Memory, *stats.Render) {
	mem := cache.NewMemory()
	st := stats.NewRender(time.Hour)
	e := NewEngine(EngineConfig{
		Cache:    mem,
		CacheTTL: time.Hour,
		Stats:    st,
		Log:      discardLogger(),
	})
	return e, mem, st
}

func TestEngine_RenderCachesOutput(t *testing.T) {
	ctx := context.Background()
	e, mem, st := newTestEngine()

	first, err := e.Render(ctx, sampleLesson, "html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Error("first render should not be cached")
	}
	if !strings.Contains(first.Output, "<h2>Photosynthesis</h2>") {
		t.Errorf("unexpected output %q", first.Output)
	}
	if mem.Len() != 1 {
		t.Errorf("expected one cache entry, got %d", mem.Len())
	}

	second, err := e.Render(ctx, sampleLesson, "HTML")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Error("second render should come from cache")
	}
	if second.Output != first.Output {
		t.Error("cached output differs from rendered output")
	}
	if len(second.Items) != 4 {
		t.Errorf("expected items on cache hit, got %d", len(second.Items))
	}

	if got := st.Snapshot().Documents; got != 2 {
		t.Errorf("expected 2 observed documents, got %d", got)
	}
}

func TestEngine_FormatsAreCachedSeparately(t *testing.T) {
	ctx := context.Background()
	e, mem, _ := newTestEngine()

	if _, err := e.Render(ctx, sampleLesson, "html"); err != nil {
		t.Fatal(err)
	}
	res, err := e.Render(ctx, sampleLesson, "text")
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("text render must not reuse the html entry")
	}
	if mem.Len() != 2 {
		t.Errorf("expected 2 cache entries, got %d", mem.Len())
	}
}

func TestEngine_UnsupportedFormat(t *testing.T) {
	e, _, _ := newTestEngine()
	_, err := e.Render(context.Background(), sampleLesson, "pdf")
	if !errors.Is(err, render.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEngine_FailuresReachStats(t *testing.T) {
	e, _, st := newTestEngine()
	res, err := e.Render(context.Background(), "[SEARCH_PROMPT]{\"query\":\"\"}[/SEARCH_PROMPT]", "text")
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", res.Summary.Failures)
	}
	if got := st.Snapshot().Failures["SEARCH_PROMPT"]["missing query"]; got != 1 {
		t.Errorf("expected missing query to be counted, got %d", got)
	}
}

func TestEngine_WithoutCacheOrStats(t *testing.T) {
	e := NewEngine(EngineConfig{Log: discardLogger()})
	res, err := e.Render(context.Background(), "", "json")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 0 || res.Items == nil {
		t.Errorf("expected empty non-nil items, got %#v", res.Items)
	}
	if e.Stats() != nil {
		t.Error("expected nil stats")
	}
	e.CleanupCache()
}
