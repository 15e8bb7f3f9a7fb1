// Package goldmark extracts metadata from standalone markdown pages.
package goldmark

import (
	"strings"

	"github.com/fwojciec/rustindexed"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Ensure TitleExtractor implements rustindexed.TitleExtractor at compile time.
var _ rustindexed.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor finds page titles in markdown.
type TitleExtractor struct {
	md goldmark.Markdown
}

// NewTitleExtractor creates a new TitleExtractor.
func NewTitleExtractor() *TitleExtractor {
	return &TitleExtractor{md: goldmark.New()}
}

// ExtractTitle returns the text of the first heading of any level.
func (e *TitleExtractor) ExtractTitle(markdown string) string {
	src := []byte(markdown)
	doc := e.md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			if title := strings.TrimSpace(string(h.Text(src))); title != "" {
				return title
			}
		}
	}
	return ""
}
