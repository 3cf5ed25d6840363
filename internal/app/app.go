// Package app wires configuration into the service components shared by the
// API server and the chunkctl CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"vrmt-search/internal/config"
	"vrmt-search/internal/indexer"
	"vrmt-search/internal/llm"
	"vrmt-search/internal/metrics"
	"vrmt-search/internal/rag"
	"vrmt-search/internal/storage"
	"vrmt-search/internal/vectorstore"
)

// App holds the constructed clients. Build it once and inject its fields.
type App struct {
	Config     *config.Config
	Vocabulary *config.Vocabulary

	DB          *sql.DB
	IngestRuns  *storage.IngestRunRepo
	VectorStore *vectorstore.QdrantStore
	Embedder    *llm.EmbeddingsClient
	Metrics     *metrics.Metrics
	Chunker     *indexer.Chunker
	Engine      rag.Engine
}

// SetupLogging configures the default slog logger from cfg and returns it.
func SetupLogging(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
	return logger
}

// NewChunker builds the chunker described by cfg and vocab.
func NewChunker(cfg *config.Config, vocab *config.Vocabulary) *indexer.Chunker {
	opts := []indexer.ChunkerOption{indexer.WithMinWords(cfg.ChunkMinWords)}
	if cfg.ChunkPlainText {
		opts = append(opts, indexer.WithPlainText())
	}
	return indexer.NewChunker(indexer.NewTagger(vocab.Targets, vocab.DefaultTag), opts...)
}

// New opens the ledger, connects to Qdrant and builds the retrieval engine.
//
// An unreachable vector store is logged and tolerated so the process can
// still start and report itself degraded.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	vocab, err := config.LoadVocabulary(cfg.VocabularyPath)
	if err != nil {
		return nil, err
	}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	store, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantCollection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	if err := store.EnsureCollection(ctx, cfg.QdrantVectorSize); err != nil {
		slog.Error("Failed to ensure Qdrant collection", "collection", cfg.QdrantCollection, "error", err)
	} else {
		slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)
	}

	if cfg.EmbeddingAPIKey == "" {
		slog.Warn("No embedding API key configured; requests are sent without authorization")
	}
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)

	m := metrics.New()

	engine := rag.NewEngine(embedder, store, cfg.Namespace,
		rag.WithMode(rag.Mode(cfg.SearchMode)),
		rag.WithTopK(cfg.SearchTopK),
		rag.WithRewriter(rag.NewQueryRewriter(vocab.VaguePhrases, vocab.RewriteTemplate)),
		rag.WithMetrics(m),
	)
	slog.Info("Retrieval engine initialized", "mode", cfg.SearchMode, "namespace", cfg.Namespace, "top_k", cfg.SearchTopK)

	return &App{
		Config:      cfg,
		Vocabulary:  vocab,
		DB:          db,
		IngestRuns:  storage.NewIngestRunRepo(db),
		VectorStore: store,
		Embedder:    embedder,
		Metrics:     m,
		Chunker:     NewChunker(cfg, vocab),
		Engine:      engine,
	}, nil
}

// NewPipeline builds the ingestion pipeline. opts are applied after the
// configured defaults.
func (a *App) NewPipeline(opts ...indexer.PipelineOption) *indexer.Pipeline {
	base := []indexer.PipelineOption{
		indexer.WithBatchSize(a.Config.EmbeddingBatchSize),
		indexer.WithRunStore(a.IngestRuns),
		indexer.WithMetrics(a.Metrics),
	}
	if a.Config.ChunkDumpPath != "" {
		base = append(base, indexer.WithDumpPath(a.Config.ChunkDumpPath))
	}
	return indexer.NewPipeline(a.Chunker, a.Embedder, a.VectorStore, a.Config.Namespace, append(base, opts...)...)
}

// Close releases the database and the Qdrant connection.
func (a *App) Close() error {
	return errors.Join(a.VectorStore.Close(), a.DB.Close())
}
