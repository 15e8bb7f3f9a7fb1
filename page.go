package rustindexed

// ParsedPage is the result of parsing one documentation page.
type ParsedPage struct {
	// Text is the display text with markup and fenced code removed.
	Text string

	// CodeBlocks are the extracted code samples in source order.
	// Blocks are never empty.
	CodeBlocks []string
}

// TocEntry is one chapter link from a book's table of contents.
// Both fields are non-empty.
type TocEntry struct {
	Title string
	Path  string // relative to the book directory, without the .md extension
}

// PageParser turns a markdown page into display text and code blocks.
type PageParser interface {
	// ParsePage parses markdown loaded from dir. Include directives are
	// resolved relative to dir; missing includes are dropped with a warning.
	ParsePage(markdown string, dir string) *ParsedPage
}

// HTMLParser turns a rendered HTML page into plain text.
type HTMLParser interface {
	// ParseHTML returns the page text and the content of the first <title>
	// element. The returned page never has code blocks. Title is empty if
	// the page has none.
	ParseHTML(html string) (page *ParsedPage, title string, err error)
}

// TitleExtractor derives a title from a standalone markdown page.
type TitleExtractor interface {
	// ExtractTitle returns the text of the first heading, or empty string.
	ExtractTitle(markdown string) string
}

// FileSystem reads documentation sources from disk.
type FileSystem interface {
	// ReadFile returns the file content.
	// Returns ENOTFOUND if the file does not exist.
	ReadFile(path string) (string, error)

	// ListFiles returns slash-separated paths relative to dir for regular
	// files whose extension matches one of exts (all files if none given),
	// sorted lexically. Subdirectories are walked only when recursive is set.
	ListFiles(dir string, recursive bool, exts ...string) ([]string, error)
}
