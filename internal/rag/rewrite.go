package rag

import "strings"

// TagPlaceholder is replaced by the focus target in a rewrite template.
const TagPlaceholder = "{tag}"

// QueryRewriter turns short affirmative replies into a concrete question
// about the focus target.
type QueryRewriter struct {
	phrases  map[string]struct{}
	template string
}

// NewQueryRewriter creates a rewriter for the given vague phrases.
// Phrases are normalized the same way queries are.
func NewQueryRewriter(phrases []string, template string) *QueryRewriter {
	r := &QueryRewriter{
		phrases:  make(map[string]struct{}, len(phrases)),
		template: template,
	}
	for _, p := range phrases {
		if n := normalizeQuery(p); n != "" {
			r.phrases[n] = struct{}{}
		}
	}
	return r
}

// IsVague reports whether query is one of the configured vague phrases.
func (r *QueryRewriter) IsVague(query string) bool {
	_, ok := r.phrases[normalizeQuery(query)]
	return ok
}

// Rewrite returns the query to embed and whether it was rewritten.
// Only vague queries with a non-empty focus target are rewritten.
func (r *QueryRewriter) Rewrite(query, focusTarget string) (string, bool) {
	if focusTarget == "" || !r.IsVague(query) {
		return query, false
	}
	return strings.ReplaceAll(r.template, TagPlaceholder, focusTarget), true
}

// normalizeQuery trims, lowercases and drops trailing '.' and '!'.
func normalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.TrimRight(q, ".!")
	return strings.TrimSpace(q)
}
