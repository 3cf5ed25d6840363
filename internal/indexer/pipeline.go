package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"vrmt-search/internal/contextutil"
	"vrmt-search/internal/llm"
	"vrmt-search/internal/metrics"
	"vrmt-search/internal/storage"
	"vrmt-search/internal/vectorstore"
)

// DefaultBatchSize is the number of chunk texts sent per embeddings request.
const DefaultBatchSize = 64

// IngestStatus is the final state of an ingestion run.
type IngestStatus string

const (
	IngestSucceeded IngestStatus = "succeeded"
	IngestSkipped   IngestStatus = "skipped"
	IngestFailed    IngestStatus = "failed"
)

// IngestResult describes one ingestion run. Ingest never returns an error;
// failures are reported here.
type IngestResult struct {
	RunID      string
	Source     string
	Status     IngestStatus
	Chunks     int   // Chunks produced by the chunker
	Uploaded   int   // Points written to the vector store
	DeleteErr  error // Namespace delete failure; the upload still ran
	Err        error // Cause of a failed or skipped run
	StartedAt  time.Time
	FinishedAt time.Time
}

// ProgressFunc receives the number of embedded chunks so far and the total.
type ProgressFunc func(done, total int)

// Pipeline replaces the contents of a namespace with the chunks of one document.
type Pipeline struct {
	chunker     *Chunker
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	namespace   string

	batchSize int
	dumpPath  string
	runs      storage.IngestRunStore
	metrics   *metrics.Metrics
	progress  ProgressFunc
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithDumpPath writes a chunk dump to path on every run.
func WithDumpPath(path string) PipelineOption {
	return func(p *Pipeline) { p.dumpPath = path }
}

// WithBatchSize sets the embeddings batch size. Non-positive values are ignored.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithRunStore records every run in the ledger.
func WithRunStore(runs storage.IngestRunStore) PipelineOption {
	return func(p *Pipeline) { p.runs = runs }
}

// WithMetrics records run outcomes.
func WithMetrics(m *metrics.Metrics) PipelineOption {
	return func(p *Pipeline) { p.metrics = m }
}

// WithProgress reports embedding progress after each batch.
func WithProgress(fn ProgressFunc) PipelineOption {
	return func(p *Pipeline) { p.progress = fn }
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunker *Chunker,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	namespace string,
	opts ...PipelineOption,
) *Pipeline {
	if chunker == nil {
		chunker = NewChunker(nil)
	}
	p := &Pipeline{
		chunker:     chunker,
		embedder:    embedder,
		vectorStore: vectorStore,
		namespace:   namespace,
		batchSize:   DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest chunks the file at sourcePath, embeds every chunk and replaces the
// namespace contents with the result.
//
// Chunks are embedded before anything is deleted, so an embedding failure
// leaves the previous index intact. A failed namespace delete is logged and
// recorded on the result, and the upload proceeds regardless.
func (p *Pipeline) Ingest(ctx context.Context, sourcePath string) IngestResult {
	result := IngestResult{
		RunID:     uuid.New().String(),
		Source:    sourcePath,
		StartedAt: time.Now(),
	}
	logger := contextutil.LoggerFromContext(ctx).With("run_id", result.RunID, "source", sourcePath)

	p.run(ctx, &result)

	result.FinishedAt = time.Now()
	duration := result.FinishedAt.Sub(result.StartedAt)

	switch result.Status {
	case IngestSkipped:
		logger.WarnContext(ctx, "ingestion skipped", "reason", result.Err)
	case IngestFailed:
		logger.ErrorContext(ctx, "ingestion failed", "chunks", result.Chunks, "error", result.Err)
	default:
		logger.InfoContext(ctx, "ingestion completed",
			"chunks", result.Chunks,
			"uploaded", result.Uploaded,
			"duration_ms", duration.Milliseconds(),
		)
	}

	p.metrics.ObserveIngest(string(result.Status), result.Uploaded, duration)
	p.record(ctx, result)

	return result
}

func (p *Pipeline) run(ctx context.Context, result *IngestResult) {
	logger := contextutil.LoggerFromContext(ctx)

	content, err := os.ReadFile(result.Source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result.Status = IngestSkipped
			result.Err = fmt.Errorf("source file not found: %w", err)
			return
		}
		p.fail(result, fmt.Errorf("failed to read source file: %w", err))
		return
	}

	chunks := p.chunker.Chunk(string(content))
	result.Chunks = len(chunks)

	if p.dumpPath != "" {
		if err := WriteDumpFile(p.dumpPath, chunks); err != nil {
			logger.WarnContext(ctx, "failed to write chunk dump", "path", p.dumpPath, "error", err)
		} else {
			logger.DebugContext(ctx, "wrote chunk dump", "path", p.dumpPath, "chunks", len(chunks))
		}
	}

	if len(chunks) == 0 {
		logger.WarnContext(ctx, "no chunks generated", "source", result.Source)
	}

	embeddings, err := p.embed(ctx, chunks)
	if err != nil {
		p.fail(result, err)
		return
	}

	if err := p.vectorStore.DeleteNamespace(ctx, p.namespace); err != nil {
		result.DeleteErr = err
		logger.WarnContext(ctx, "failed to clear namespace, continuing with upload",
			"namespace", p.namespace, "error", err)
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:  uuid.New().String(),
			Vec: embeddings[i],
			Meta: map[string]any{
				vectorstore.MetaTitle:  chunk.Title,
				vectorstore.MetaText:   chunk.Text,
				vectorstore.MetaTarget: chunk.Tag,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.namespace, points); err != nil {
		p.fail(result, fmt.Errorf("failed to upsert vectors: %w", err))
		return
	}

	result.Uploaded = len(points)
	result.Status = IngestSucceeded
}

// embed embeds chunk texts in batches, in order.
func (p *Pipeline) embed(ctx context.Context, chunks []Chunk) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+p.batchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}

		batch, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(batch))
		}
		embeddings = append(embeddings, batch...)

		if p.progress != nil {
			p.progress(len(embeddings), len(chunks))
		}
	}
	return embeddings, nil
}

func (p *Pipeline) fail(result *IngestResult, err error) {
	result.Status = IngestFailed
	result.Err = err
}

// record writes the run to the ledger. Ledger failures are logged only.
func (p *Pipeline) record(ctx context.Context, result IngestResult) {
	if p.runs == nil {
		return
	}

	run := &storage.IngestRunRecord{
		ID:            result.RunID,
		Source:        result.Source,
		Namespace:     p.namespace,
		Status:        string(result.Status),
		ChunkCount:    result.Chunks,
		UploadedCount: result.Uploaded,
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
	}
	if result.DeleteErr != nil {
		run.DeleteError = result.DeleteErr.Error()
	}
	if result.Err != nil {
		run.Error = result.Err.Error()
	}

	if err := p.runs.Insert(ctx, run); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record ingest run",
			"run_id", result.RunID, "error", err)
	}
}
