package indexer

import "strings"

// DefaultTag is returned when no known target appears in a text.
const DefaultTag = "general"

// Tagger assigns a single label to a text by keyword containment.
type Tagger struct {
	targets    []string
	lowered    []string
	defaultTag string
}

// NewTagger creates a tagger over targets in priority order.
// Blank targets are ignored. An empty defaultTag falls back to DefaultTag.
func NewTagger(targets []string, defaultTag string) *Tagger {
	t := &Tagger{defaultTag: defaultTag}
	if t.defaultTag == "" {
		t.defaultTag = DefaultTag
	}
	for _, target := range targets {
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		t.targets = append(t.targets, target)
		t.lowered = append(t.lowered, strings.ToLower(target))
	}
	return t
}

// Infer returns the first target contained in text, case-insensitively,
// or the default tag when none is.
func (t *Tagger) Infer(text string) string {
	lower := strings.ToLower(text)
	for i, target := range t.lowered {
		if strings.Contains(lower, target) {
			return t.targets[i]
		}
	}
	return t.defaultTag
}

