package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingest_run_store.go -package=mocks vrmt-search/internal/storage IngestRunStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Fixed-width so started_at sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// IngestRunStore defines the interface for the ingestion ledger.
type IngestRunStore interface {
	// Insert records a finished run. run.ID must be set.
	Insert(ctx context.Context, run *IngestRunRecord) error
	// Latest returns the most recently started run. Returns ErrNotFound if none exist.
	Latest(ctx context.Context) (*IngestRunRecord, error)
	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]IngestRunRecord, error)
}

// IngestRunRepo stores ingestion runs in SQLite.
// It implements the IngestRunStore interface.
type IngestRunRepo struct {
	db *sql.DB
}

// NewIngestRunRepo creates a new IngestRunRepo.
func NewIngestRunRepo(db *sql.DB) *IngestRunRepo {
	return &IngestRunRepo{db: db}
}

// Insert records a finished run. run.ID must be set.
func (r *IngestRunRepo) Insert(ctx context.Context, run *IngestRunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("ingest run id is required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ingest_runs
			(id, source, namespace, status, chunk_count, uploaded_count, delete_error, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Namespace, run.Status, run.ChunkCount, run.UploadedCount,
		run.DeleteError, run.Error,
		run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingest run: %w", err)
	}
	return nil
}

// Latest returns the most recently started run.
func (r *IngestRunRepo) Latest(ctx context.Context) (*IngestRunRecord, error) {
	runs, err := r.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// List returns up to limit runs, newest first. A non-positive limit returns an empty slice.
func (r *IngestRunRepo) List(ctx context.Context, limit int) ([]IngestRunRecord, error) {
	if limit <= 0 {
		return []IngestRunRecord{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source, namespace, status, chunk_count, uploaded_count, delete_error, error, started_at, finished_at
		FROM ingest_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingest runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	runs := []IngestRunRecord{}
	for rows.Next() {
		var (
			run                   IngestRunRecord
			startedAt, finishedAt string
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.Namespace, &run.Status, &run.ChunkCount,
			&run.UploadedCount, &run.DeleteError, &run.Error, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}
