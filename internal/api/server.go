package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/lessonrender/internal/config"
	"github.com/dgallion1/lessonrender/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for lessonrender.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	engine       *pipeline.Engine
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		engine:       orch.Engine(),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Post("/api/render", s.handleRender)
		r.Post("/api/render/batch", s.handleRenderBatch)

		r.Post("/api/lessons", s.handleUpload)
		r.Post("/api/lessons/batch", s.handleBatchUpload)
		r.Get("/api/lessons/{jobID}/status", s.handleLessonStatus)
		r.Get("/api/lessons/{jobID}/result", s.handleLessonResult)

		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
