package rag

import (
	"fmt"
	"strings"

	"vrmt-search/internal/vectorstore"
)

// FormatMatches renders matches as "--- title ---\ntext" blocks separated by
// a blank line. Matches without text are skipped. It returns the text and
// the number of blocks included.
func FormatMatches(results []vectorstore.SearchResult) (string, int) {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		text := metaString(r.Meta, vectorstore.MetaText)
		if text == "" {
			continue
		}
		title := metaString(r.Meta, vectorstore.MetaTitle)
		blocks = append(blocks, fmt.Sprintf("--- %s ---\n%s", title, text))
	}
	return strings.Join(blocks, "\n\n"), len(blocks)
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
