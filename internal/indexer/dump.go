package indexer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteDump writes a human-readable listing of chunks for inspection.
func WriteDump(w io.Writer, chunks []Chunk) error {
	bw := bufio.NewWriter(w)
	for _, chunk := range chunks {
		if _, err := fmt.Fprintf(bw, "=== Chunk %d ===\nTitle: %s\nTag: %s\nWords: %d\n\n%s\n\n",
			chunk.Index+1, chunk.Title, chunk.Tag, WordCount(chunk.Text), chunk.Text); err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", chunk.Index, err)
		}
	}
	if _, err := fmt.Fprintf(bw, "Total chunks: %d\n", len(chunks)); err != nil {
		return fmt.Errorf("failed to write dump summary: %w", err)
	}
	return bw.Flush()
}

// WriteDumpFile writes the dump to path, creating parent directories as needed.
func WriteDumpFile(path string, chunks []Chunk) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close dump file: %w", cerr)
		}
	}()

	return WriteDump(f, chunks)
}
