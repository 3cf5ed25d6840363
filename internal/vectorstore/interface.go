package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks vrmt-search/internal/vectorstore VectorStore

import "context"

// Metadata keys shared by ingestion and retrieval.
const (
	// NamespaceKey is the payload field that partitions records inside one collection.
	NamespaceKey = "namespace"
	MetaTitle    = "title"
	MetaText     = "text"
	// MetaTarget holds the inferred tag and is the field search filters match on.
	MetaTarget = "target"
)

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
// Every operation is scoped to a namespace.
type VectorStore interface {
	// Upsert inserts or updates points in the namespace.
	Upsert(ctx context.Context, namespace string, points []Point) error

	// DeleteNamespace removes every point in the namespace.
	DeleteNamespace(ctx context.Context, namespace string) error

	// Search returns the k nearest neighbours of query in the namespace.
	// filter uses equality operators on metadata fields, e.g. {"target": {"$eq": "lehr"}}.
	// A nil or empty filter applies no metadata restriction.
	Search(ctx context.Context, namespace string, query []float32, k int, filter map[string]any) ([]SearchResult, error)
}
