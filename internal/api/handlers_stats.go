package api

import (
	"net/http"
)

func (s *Server) handleRenderStats(w http.ResponseWriter, r *http.Request) {
	st := s.engine.Stats()
	if st == nil {
		jsonError(w, "render stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":       st.Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"workers":     s.cfg.WorkerCount,
	})
}
