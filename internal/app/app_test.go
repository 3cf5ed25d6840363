package app

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"vrmt-search/internal/config"
)

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"text", "text", "msg=hello"},
		{"json", "json", `"msg":"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := SetupLogging(&config.Config{LogLevel: slog.LevelInfo, LogFormat: tt.format}, &buf)
			logger.Info("hello")
			logger.Debug("hidden")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
			if strings.Contains(buf.String(), "hidden") {
				t.Error("debug output should be filtered at info level")
			}
		})
	}
}

func TestNewChunker(t *testing.T) {
	vocab := config.DefaultVocabulary()
	doc := "# Lehr\nThe **lehr** must be warm."

	c := NewChunker(&config.Config{ChunkMinWords: 0, ChunkPlainText: true}, vocab)
	chunks := c.Chunk(doc)
	if len(chunks) != 1 {
		t.Fatalf("Chunk() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Tag != "lehr" {
		t.Errorf("Tag = %q, want lehr", chunks[0].Tag)
	}
	if strings.Contains(chunks[0].Text, "**") {
		t.Errorf("Text = %q, plain text mode should strip markup", chunks[0].Text)
	}

	c = NewChunker(&config.Config{ChunkMinWords: 50}, vocab)
	if got := c.Chunk(doc); len(got) != 0 {
		t.Errorf("Chunk() with min words 50 returned %d chunks, want 0", len(got))
	}
}
