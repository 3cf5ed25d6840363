package rag

// Mode selects how the gateway treats a request.
type Mode string

const (
	// ModeFiltered rewrites vague queries, filters by target and returns formatted reference text.
	ModeFiltered Mode = "filtered"
	// ModeRaw embeds the query as given and returns match metadata.
	ModeRaw Mode = "raw"
)

// DefaultTopK is the number of neighbours requested from the vector store.
const DefaultTopK = 5

// SearchRequest represents a search query.
type SearchRequest struct {
	// Query is the user's question.
	Query string `json:"query"`
	// FocusTarget optionally restricts results to chunks tagged with it.
	// Ignored in raw mode.
	FocusTarget string `json:"focus_target,omitempty"`
}

// SearchResponse is the result of a search. Which fields are populated depends on Mode.
type SearchResponse struct {
	Mode Mode `json:"-"`

	// ReferenceInfo is the formatted context text (filtered mode).
	ReferenceInfo string `json:"reference_info"`
	// MatchCount is the number of blocks in ReferenceInfo (filtered mode).
	MatchCount int `json:"match_count"`
	// AppliedFilter is the metadata filter sent to the store, {} when none (filtered mode).
	AppliedFilter map[string]any `json:"applied_filter"`

	// Matches holds the metadata of every match in rank order (raw mode).
	Matches []map[string]any `json:"-"`
}
