package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/contentgen/internal/api"
	"github.com/dgallion1/contentgen/internal/config"
	"github.com/dgallion1/contentgen/internal/generate"
	"github.com/dgallion1/contentgen/internal/metrics"
	"github.com/dgallion1/contentgen/internal/pipeline"
	"github.com/dgallion1/contentgen/internal/render"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AuthDisabled {
		log.Warn("authentication disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := generate.New()
	gen.PDFFallback = cfg.PDFFallbackPdftotext
	if cfg.ThemeFile != "" {
		theme, err := render.LoadTheme(cfg.ThemeFile)
		if err != nil {
			log.Error("load theme", "path", cfg.ThemeFile, "error", err)
			os.Exit(1)
		}
		gen.Theme = theme
	}

	// Initialize pipeline.
	m := metrics.New()
	orch := pipeline.NewOrchestrator(cfg, gen, m, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, m, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting contentgen", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
