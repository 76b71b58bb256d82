package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/lessonrender/internal/cache"
	"github.com/dgallion1/lessonrender/internal/lesson"
	"github.com/dgallion1/lessonrender/internal/render"
	"github.com/dgallion1/lessonrender/internal/stats"
)

// Rendered is the outcome of rendering one lesson.
type Rendered struct {
	Items       []lesson.Item  `json:"items"`
	Output      string         `json:"output"`
	ContentType string         `json:"content_type"`
	Summary     lesson.Summary `json:"summary"`
	Cached      bool           `json:"cached"`
}

// Engine parses and renders lesson text. Rendered output is cached by
// content hash; parsing always runs so failures reach the sinks.
type Engine struct {
	cache    cache.Cache
	cacheTTL time.Duration
	stats    *stats.Render
	log      *slog.Logger
	opts     render.Options
	parser   lesson.Parser
}

// EngineConfig collects the Engine's collaborators. Cache and Stats may be nil.
type EngineConfig struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Stats    *stats.Render
	Render   render.Options
	Log      *slog.Logger
}

func NewEngine(cfg EngineConfig) *Engine {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	sinks := lesson.Sinks{lesson.LogSink{Log: log}}
	if cfg.Stats != nil {
		sinks = append(sinks, cfg.Stats)
	}
	return &Engine{
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		stats:    cfg.Stats,
		log:      log,
		opts:     cfg.Render,
		parser:   lesson.Parser{Sink: sinks},
	}
}

// Parse turns lesson text into items, reporting payload failures.
func (e *Engine) Parse(text string) []lesson.Item {
	return e.parser.Parse(text)
}

// Render parses text and renders it in format.
func (e *Engine) Render(ctx context.Context, text, format string) (*Rendered, error) {
	return e.RenderItems(ctx, text, e.Parse(text), format)
}

// RenderItems renders items already parsed from text. text is only used to
// derive the cache key.
func (e *Engine) RenderItems(ctx context.Context, text string, items []lesson.Item, format string) (*Rendered, error) {
	r, err := render.ForFormat(format, e.opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Rendered{
		Items:       items,
		ContentType: r.ContentType(),
		Summary:     lesson.Summarize(items),
	}
	if res.Items == nil {
		res.Items = []lesson.Item{}
	}

	key := cache.Key(r.ContentType(), text)
	if out, ok := e.lookup(ctx, key); ok {
		res.Output = string(out)
		res.Cached = true
		e.observe(time.Since(start), res.Summary)
		return res, nil
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, items); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	res.Output = buf.String()
	e.store(ctx, key, buf.Bytes())
	e.observe(time.Since(start), res.Summary)
	return res, nil
}

// Stats returns the render statistics collector, which may be nil.
func (e *Engine) Stats() *stats.Render {
	return e.stats
}

// CleanupCache drops expired entries when the cache supports it.
func (e *Engine) CleanupCache() {
	if c, ok := e.cache.(interface{ Cleanup() }); ok {
		c.Cleanup()
	}
}

// Cache errors are logged and treated as a miss.
func (e *Engine) lookup(ctx context.Context, key string) ([]byte, bool) {
	if e.cache == nil {
		return nil, false
	}
	out, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.Warn("cache get failed", "error", err)
		return nil, false
	}
	return out, ok
}

func (e *Engine) store(ctx context.Context, key string, out []byte) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, out, e.cacheTTL); err != nil {
		e.log.Warn("cache set failed", "error", err)
	}
}

func (e *Engine) observe(d time.Duration, s lesson.Summary) {
	if e.stats != nil {
		e.stats.Observe(d, s)
	}
}
