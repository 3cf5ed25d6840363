package indexer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDump(t *testing.T) {
	chunks := []Chunk{
		{Index: 0, Title: "Intro", Text: "hello world", Tag: "general"},
		{Index: 1, Title: "Intro > Lehr", Text: "the lehr cools glass", Tag: "lehr"},
	}

	var buf bytes.Buffer
	if err := WriteDump(&buf, chunks); err != nil {
		t.Fatalf("WriteDump() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"=== Chunk 1 ===\nTitle: Intro\nTag: general\nWords: 2\n\nhello world\n",
		"=== Chunk 2 ===\nTitle: Intro > Lehr\nTag: lehr\nWords: 4\n",
		"Total chunks: 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteDump() output missing %q\ngot:\n%s", want, out)
		}
	}
}

func TestWriteDumpFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "chunks.txt")

	if err := WriteDumpFile(path, nil); err != nil {
		t.Fatalf("WriteDumpFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "Total chunks: 0\n" {
		t.Errorf("dump contents = %q, want empty summary", data)
	}
}
