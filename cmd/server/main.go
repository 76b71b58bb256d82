package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/lessonrender/internal/api"
	"github.com/dgallion1/lessonrender/internal/cache"
	"github.com/dgallion1/lessonrender/internal/config"
	"github.com/dgallion1/lessonrender/internal/pipeline"
	"github.com/dgallion1/lessonrender/internal/render"
	"github.com/dgallion1/lessonrender/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the render cache.
	var store cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Error("connect redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = rc
		log.Info("using redis render cache", "addr", cfg.RedisAddr)
	}

	engine := pipeline.NewEngine(pipeline.EngineConfig{
		Cache:    store,
		CacheTTL: cfg.CacheTTL,
		Stats:    stats.NewRender(cfg.StatsWindow),
		Render:   render.Options{FigureSearchURL: cfg.FigureSearchURL},
		Log:      log,
	})

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, engine, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", "error", err)
		}

		orch.Stop()
		if err := store.Close(); err != nil {
			log.Error("close cache", "error", err)
		}
	}()

	log.Info("starting lessonrender", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
