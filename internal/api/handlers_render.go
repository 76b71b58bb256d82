package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/lessonrender/internal/pipeline"
	"github.com/dgallion1/lessonrender/internal/render"
	"golang.org/x/sync/errgroup"
)

type renderRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

type batchDocument struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type batchRequest struct {
	Documents []batchDocument `json:"documents"`
	Format    string          `json:"format"`
}

type batchResult struct {
	ID string `json:"id"`
	*pipeline.Rendered
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	format, err := render.Normalize(req.Format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.engine.Render(r.Context(), req.Text, format)
	if err != nil {
		s.renderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRenderBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10)

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}
	format, err := render.Normalize(req.Format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	results := make([]batchResult, len(req.Documents))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.cfg.MaxRenderConcurrency)
	for i, doc := range req.Documents {
		g.Go(func() error {
			res, err := s.engine.Render(ctx, doc.Text, format)
			if err != nil {
				return err
			}
			results[i] = batchResult{ID: doc.ID, Rendered: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.renderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) renderError(w http.ResponseWriter, err error) {
	if errors.Is(err, render.ErrUnsupportedFormat) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.log.Error("render failed", "error", err)
	jsonError(w, "render failed", http.StatusInternalServerError)
}
