package parser

import (
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"

	"document-chat/internal/models"
)

// parseMarkdown walks the goldmark AST and keeps only the text content,
// so headings, emphasis and tables do not leak markup into the chunks.
func parseMarkdown(filePath string) ([]models.Page, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(gmtext.NewReader(source))

	var text strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				text.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					text.WriteByte('\n')
				}
			}
			return ast.WalkContinue, nil
		}
		if n.Type() == ast.TypeBlock {
			text.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, &ExtractionError{Path: filePath, Err: err}
	}
	return appendPage(nil, 1, text.String()), nil
}
