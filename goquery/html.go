// Package goquery converts rendered HTML documentation pages into plain text.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rustindexed"
)

// Ensure HTMLParser implements rustindexed.HTMLParser at compile time.
var _ rustindexed.HTMLParser = (*HTMLParser)(nil)

// HTMLParser strips all markup from a page and decodes entities.
// Code blocks are not extracted from HTML.
type HTMLParser struct{}

// NewHTMLParser creates a new HTMLParser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

// ParseHTML returns the page text and its first <title>.
func (p *HTMLParser) ParseHTML(html string) (*rustindexed.ParsedPage, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", rustindexed.Errorf(rustindexed.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	// Script and style bodies are not prose.
	doc.Find("script, style, noscript").Remove()

	return &rustindexed.ParsedPage{Text: collapseLines(doc.Text())}, title, nil
}

// collapseLines trims every line and squeezes runs of blank lines into one.
func collapseLines(s string) string {
	var b strings.Builder
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if blank {
			b.WriteByte('\n')
			blank = false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
