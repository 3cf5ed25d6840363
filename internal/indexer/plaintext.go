package indexer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// PlainTextRenderer strips markdown syntax and keeps the readable text.
type PlainTextRenderer struct {
	parser goldmark.Markdown
}

// NewPlainTextRenderer creates a renderer using goldmark with table support.
func NewPlainTextRenderer() *PlainTextRenderer {
	return &PlainTextRenderer{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
	}
}

// Render returns the text content of markdown, one line per block.
// Emphasis, link targets, list markers and code fences are dropped;
// code block contents and link labels are kept.
func (r *PlainTextRenderer) Render(markdown string) string {
	source := []byte(markdown)
	doc := r.parser.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && n.Kind() != ast.KindDocument && n.Kind() != extast.KindTableCell {
				ensureNewline(&b)
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *extast.TableCell:
			if node.PreviousSibling() != nil {
				b.WriteString(" | ")
			}
		}
		return ast.WalkContinue, nil
	})

	return collapseBlankLines(b.String())
}

func ensureNewline(b *strings.Builder) {
	if b.Len() == 0 {
		return
	}
	if s := b.String(); s[len(s)-1] != '\n' {
		b.WriteByte('\n')
	}
}

// collapseBlankLines trims each line and drops empty ones.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
