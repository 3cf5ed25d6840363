package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vrmt-search/internal/app"
	"vrmt-search/internal/config"
	"vrmt-search/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API serves similarity search over a Markdown equipment manual that is
// chunked by heading and indexed in a vector store at startup.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: VRMT Search API
//   description: |
//     Search API over the VR system manual. Queries are embedded and matched
//     against heading-scoped chunks, optionally restricted to one equipment tag.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app.SetupLogging(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	// Ingest before serving; a failed run is recorded but never blocks startup.
	result := a.NewPipeline().Ingest(ctx, cfg.SourcePath)
	slog.Info("Startup ingestion finished",
		"status", result.Status,
		"chunks", result.Chunks,
		"uploaded", result.Uploaded,
	)

	router := http.NewRouter(&http.Deps{
		Engine:      a.Engine,
		VectorStore: a.VectorStore,
		IngestRuns:  a.IngestRuns,
		Metrics:     a.Metrics,
	})

	addr := ":" + cfg.APIPort
	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Embedding configuration", "base_url", cfg.EmbeddingBaseURL, "model", cfg.EmbeddingModelName)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
