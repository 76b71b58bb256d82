package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/lessonrender/internal/source"
)

// Worker processes a single lesson job.
type Worker struct {
	engine *Engine
	opts   source.Options
	log    *slog.Logger
}

func NewWorker(engine *Engine, opts source.Options, log *slog.Logger) *Worker {
	return &Worker{engine: engine, opts: opts, log: log}
}

// Process loads, parses and renders the job's lesson.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Load
	job.SetStatus(StatusLoading, "loading")
	loader, err := source.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "loading")
		return
	}

	src, err := loader.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}
	if job.Title != "" {
		src.Title = job.Title
	} else {
		job.SetTitle(src.Title)
	}
	job.SetContentHash(ContentHashHex([]byte(src.Text)))

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	items := w.engine.Parse(src.Text)

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering")
	rendered, err := w.engine.RenderItems(ctx, src.Text, items, job.Format)
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}
	job.SetSummary(rendered.Summary)
	job.SetResult(&Result{Title: src.Title, Rendered: rendered})

	log.Info("lesson rendered",
		"blocks", rendered.Summary.Blocks,
		"payloads", rendered.Summary.Payloads,
		"failures", rendered.Summary.Failures,
		"cached", rendered.Cached,
	)

	if rendered.Summary.Failures > 0 {
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}
