package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks vrmt-search/internal/rag Engine

import (
	"context"
	"fmt"
	"strings"

	"vrmt-search/internal/contextutil"
	"vrmt-search/internal/llm"
	"vrmt-search/internal/metrics"
	"vrmt-search/internal/vectorstore"
)

// Engine is the retrieval gateway in front of the vector store.
type Engine interface {
	// Search embeds the request query and returns the nearest chunks.
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	// Mode returns the configured response mode.
	Mode() Mode
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	namespace   string
	mode        Mode
	topK        int
	rewriter    *QueryRewriter
	metrics     *metrics.Metrics
}

// EngineOption configures an Engine.
type EngineOption func(*ragEngine)

// WithMode selects filtered or raw responses.
func WithMode(mode Mode) EngineOption {
	return func(e *ragEngine) { e.mode = mode }
}

// WithTopK sets the number of neighbours to request. Non-positive values are ignored.
func WithTopK(k int) EngineOption {
	return func(e *ragEngine) {
		if k > 0 {
			e.topK = k
		}
	}
}

// WithRewriter sets the vague-query rewriter used in filtered mode.
func WithRewriter(r *QueryRewriter) EngineOption {
	return func(e *ragEngine) { e.rewriter = r }
}

// WithMetrics counts query rewrites.
func WithMetrics(m *metrics.Metrics) EngineOption {
	return func(e *ragEngine) { e.metrics = m }
}

// NewEngine creates a new retrieval engine scoped to namespace.
// Defaults to filtered mode with DefaultTopK and no rewriting.
func NewEngine(
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	namespace string,
	opts ...EngineOption,
) Engine {
	e := &ragEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		namespace:   namespace,
		mode:        ModeFiltered,
		topK:        DefaultTopK,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ragEngine) Mode() Mode {
	return e.mode
}

// Search runs the request in the configured mode.
func (e *ragEngine) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if e.mode == ModeRaw {
		return e.searchRaw(ctx, req)
	}
	return e.searchFiltered(ctx, req)
}

func (e *ragEngine) searchFiltered(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query := req.Query
	if e.rewriter != nil {
		if rewritten, ok := e.rewriter.Rewrite(query, req.FocusTarget); ok {
			logger.DebugContext(ctx, "rewrote vague query", "original", query, "rewritten", rewritten)
			e.metrics.IncQueryRewrite()
			query = rewritten
		}
	}

	var filter map[string]any
	applied := map[string]any{}
	if req.FocusTarget != "" {
		filter = map[string]any{
			vectorstore.MetaTarget: map[string]any{"$eq": req.FocusTarget},
		}
		applied = filter
	}

	results, err := e.retrieve(ctx, query, filter)
	if err != nil {
		return SearchResponse{}, err
	}

	info, count := FormatMatches(results)
	logger.InfoContext(ctx, "search completed",
		"mode", ModeFiltered,
		"focus_target", req.FocusTarget,
		"results", len(results),
		"included", count,
	)

	return SearchResponse{
		Mode:          ModeFiltered,
		ReferenceInfo: info,
		MatchCount:    count,
		AppliedFilter: applied,
	}, nil
}

func (e *ragEngine) searchRaw(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return SearchResponse{}, &ValidationError{Field: "query", Message: "Missing query"}
	}

	results, err := e.retrieve(ctx, req.Query, nil)
	if err != nil {
		return SearchResponse{}, err
	}

	matches := make([]map[string]any, 0, len(results))
	for _, r := range results {
		meta := r.Meta
		if meta == nil {
			meta = map[string]any{}
		}
		matches = append(matches, meta)
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "search completed",
		"mode", ModeRaw,
		"results", len(matches),
	)

	return SearchResponse{Mode: ModeRaw, Matches: matches}, nil
}

// retrieve embeds query and runs the nearest-neighbour search.
func (e *ragEngine) retrieve(ctx context.Context, query string, filter map[string]any) ([]vectorstore.SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return nil, externalError("failed to embed query", err)
	}
	if len(embeddings) == 0 {
		return nil, externalError("failed to embed query", fmt.Errorf("no embedding returned"))
	}

	results, err := e.vectorStore.Search(ctx, e.namespace, embeddings[0], e.topK, filter)
	if err != nil {
		logger.ErrorContext(ctx, "vector search failed", "error", err)
		return nil, externalError("failed to search vector store", err)
	}
	return results, nil
}
