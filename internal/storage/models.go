package storage

import "time"

// IngestRunRecord is one row of the ingestion ledger.
type IngestRunRecord struct {
	ID            string // UUID
	Source        string // Path of the ingested markdown file
	Namespace     string
	Status        string // succeeded, skipped or failed
	ChunkCount    int    // Chunks produced by the chunker
	UploadedCount int    // Points written to the vector store
	DeleteError   string // Non-fatal namespace delete failure, if any
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}
