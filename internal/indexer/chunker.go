package indexer

import (
	"regexp"
	"strings"
)

const (
	// DefaultMinWords is the quality threshold below which a section is dropped.
	DefaultMinWords = 50
	// UntitledTitle is used for text that appears before any heading.
	UntitledTitle = "Untitled"

	titleSeparator = " > "
)

// headingPattern matches ATX headings: 1-6 '#' markers, whitespace, then text.
var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(\S.*)$`)

// Chunker splits markdown into heading-scoped chunks.
//
// Lines are read in order. A heading closes the current section and updates the
// heading stack; every other line is body text for the open section. Titles are
// the heading stack joined with " > ", so a section always carries its full
// breadcrumb even when heading levels skip.
type Chunker struct {
	tagger   *Tagger
	minWords int
	plain    *PlainTextRenderer
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithMinWords sets the minimum word count for an emitted chunk.
// Zero disables the quality filter; only empty sections are dropped then.
func WithMinWords(n int) ChunkerOption {
	return func(c *Chunker) {
		if n < 0 {
			n = 0
		}
		c.minWords = n
	}
}

// WithPlainText renders chunk bodies to plain text before filtering and tagging.
func WithPlainText() ChunkerOption {
	return func(c *Chunker) {
		c.plain = NewPlainTextRenderer()
	}
}

// NewChunker creates a chunker that tags chunks with tagger.
// A nil tagger tags every chunk with DefaultTag.
func NewChunker(tagger *Tagger, opts ...ChunkerOption) *Chunker {
	if tagger == nil {
		tagger = NewTagger(nil, DefaultTag)
	}
	c := &Chunker{
		tagger:   tagger,
		minWords: DefaultMinWords,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MinWords returns the configured quality threshold.
func (c *Chunker) MinWords() int {
	return c.minWords
}

// Chunk splits document into chunks in document order.
func (c *Chunker) Chunk(document string) []Chunk {
	var (
		chunks       []Chunk
		headingStack []string
		buffer       []string
	)
	currentTitle := UntitledTitle

	flush := func() {
		if chunk, ok := c.buildChunk(currentTitle, buffer); ok {
			chunk.Index = len(chunks)
			chunks = append(chunks, chunk)
		}
		buffer = buffer[:0]
	}

	for _, line := range strings.Split(document, "\n") {
		line = strings.TrimSuffix(line, "\r")

		level, title, ok := parseHeading(line)
		if !ok {
			buffer = append(buffer, line)
			continue
		}

		// The buffered body belongs to the section being closed, so flush
		// before the stack changes.
		flush()
		headingStack = pushHeading(headingStack, level, title)
		currentTitle = strings.Join(headingStack, titleSeparator)
	}
	flush()

	return chunks
}

// buildChunk applies the flush rule to a section body.
func (c *Chunker) buildChunk(title string, lines []string) (Chunk, bool) {
	if len(lines) == 0 {
		return Chunk{}, false
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text != "" && c.plain != nil {
		text = c.plain.Render(text)
	}
	if text == "" {
		return Chunk{}, false
	}
	if c.minWords > 0 && WordCount(text) < c.minWords {
		return Chunk{}, false
	}

	return Chunk{
		Title: title,
		Text:  text,
		Tag:   c.tagger.Infer(text),
	}, true
}

// parseHeading reports the level and trimmed title of a heading line.
func parseHeading(line string) (int, string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(m[2]), true
}

// pushHeading truncates the stack to level-1 entries and appends title.
// A stack shorter than level-1 is kept whole, so skipped levels never fail.
func pushHeading(stack []string, level int, title string) []string {
	keep := min(level-1, len(stack))
	return append(stack[:keep], title)
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
