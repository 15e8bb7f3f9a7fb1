package mock

import "github.com/fwojciec/rustindexed"

var _ rustindexed.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of rustindexed.PageParser.
type PageParser struct {
	ParsePageFn func(markdown string, dir string) *rustindexed.ParsedPage
}

func (p *PageParser) ParsePage(markdown string, dir string) *rustindexed.ParsedPage {
	return p.ParsePageFn(markdown, dir)
}

var _ rustindexed.HTMLParser = (*HTMLParser)(nil)

// HTMLParser is a mock implementation of rustindexed.HTMLParser.
type HTMLParser struct {
	ParseHTMLFn func(html string) (*rustindexed.ParsedPage, string, error)
}

func (p *HTMLParser) ParseHTML(html string) (*rustindexed.ParsedPage, string, error) {
	return p.ParseHTMLFn(html)
}

var _ rustindexed.TitleExtractor = (*TitleExtractor)(nil)

// TitleExtractor is a mock implementation of rustindexed.TitleExtractor.
type TitleExtractor struct {
	ExtractTitleFn func(markdown string) string
}

func (e *TitleExtractor) ExtractTitle(markdown string) string {
	return e.ExtractTitleFn(markdown)
}
