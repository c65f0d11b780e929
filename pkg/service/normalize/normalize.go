// Package normalize strips markup from rich note content to produce
// plain text. Both enrichment and lexical indexing consume the
// normalized form so formatting differences never change summaries,
// tags, or search results.
package normalize

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to share;
// actual parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	})
	return markdownParserInstance
}

// PlainText parses the markup and returns only its text content, with
// whitespace runs (including newlines) collapsed to single spaces and
// leading/trailing whitespace trimmed. Raw HTML tags carry no text
// nodes, so they are dropped along with all markdown syntax. Pure and
// deterministic; empty input yields "".
//
// A single extraction pass is not a fixed point: text pulled out of a
// code span or link label can itself re-parse as markdown (a leading
// "#" becomes a heading). Extraction repeats until the output stops
// changing, so PlainText(PlainText(x)) == PlainText(x) holds for every
// input. Each changing pass drops at least one syntax character, so the
// loop terminates.
func PlainText(markup string) string {
	out := markup
	for out != "" {
		next := extractText(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func extractText(markup string) string {
	source := []byte(markup)
	reader := text.NewReader(source)
	document := getMarkdownParser().Parser().Parse(reader)

	var sb strings.Builder
	_ = ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			sb.WriteByte(' ')
		case *ast.String:
			sb.Write(node.Value)
			sb.WriteByte(' ')
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
				sb.WriteByte(' ')
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	// Collapse all whitespace runs to single spaces and trim.
	return strings.Join(strings.Fields(sb.String()), " ")
}
