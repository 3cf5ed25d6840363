package indexer

// Chunk represents a heading-scoped section of a markdown document.
type Chunk struct {
	Index int    // Position in the emitted sequence (starts at 0)
	Title string // Heading path, e.g. "Intro > Setup"
	Text  string // Body text, trimmed
	Tag   string // Inferred keyword target or the default tag
}
