// Package mdbook parses mdBook-flavoured markdown pages into display text
// and code blocks.
package mdbook

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/rustindexed"
)

// Ensure Parser implements rustindexed.PageParser at compile time.
var _ rustindexed.PageParser = (*Parser)(nil)

const fence = "```"

// Include directive keywords, longest first.
var includeKeywords = []string{"#rustdoc_include", "#include"}

// Parser renders markdown pages. Every fence opens a code block regardless
// of its info string. Patterns are compiled once per Parser and are safe
// for concurrent use.
type Parser struct {
	fs     rustindexed.FileSystem
	logger *slog.Logger

	prefix  *regexp.Regexp // heading and emphasis markers at line start
	tag     *regexp.Regexp // inline HTML elements and comments
	link    *regexp.Regexp // [text](dest) and ![alt](src)
	refLink *regexp.Regexp // [text][ref]
	bracket *regexp.Regexp // [text]
	refDef  *regexp.Regexp // [ref]: dest
}

// NewParser creates a Parser that reads include targets through fs and
// reports missing includes to logger.
func NewParser(fs rustindexed.FileSystem, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{
		fs:      fs,
		logger:  logger,
		prefix:  regexp.MustCompile(`^\s*[#*]+\s*`),
		tag:     regexp.MustCompile(`<!--.*?-->|</?(?:` + htmlElements + `)(?:\s[^<>]*)?/?>`),
		link:    regexp.MustCompile(`!?\[([^\[\]]*)\]\([^()]*\)`),
		refLink: regexp.MustCompile(`\[([^\[\]]*)\]\[[^\[\]]*\]`),
		bracket: regexp.MustCompile(`\[([^\[\]]*)\]`),
		refDef:  regexp.MustCompile(`^\s*\[[^\[\]]+\]:\s*\S+`),
	}
}

// htmlElements lists the tag names stripped from prose. Generic parameters
// such as Vec<T> or Box<dyn Error> are left alone.
const htmlElements = `a|abbr|article|aside|b|blockquote|br|button|center|cite|code|dd|del|details|div|dl|dt|em|figcaption|figure|font|footer|h[1-6]|header|hr|i|iframe|img|input|ins|kbd|label|li|main|mark|nav|ol|p|pre|q|s|script|section|small|source|span|strong|style|sub|summary|sup|table|tbody|td|th|thead|tr|u|ul|video`

// ParsePage resolves include directives, then splits the result into
// display text and fenced code blocks.
func (p *Parser) ParsePage(markdown string, dir string) *rustindexed.ParsedPage {
	return p.render(p.ResolveIncludes(markdown, dir))
}

// ResolveIncludes replaces {{#include path}} and {{#rustdoc_include path}}
// lines with the content of path relative to dir. Anchors after ':' are
// ignored and the whole file is spliced. Unreadable targets are dropped.
func (p *Parser) ResolveIncludes(markdown string, dir string) string {
	var b strings.Builder
	for _, line := range splitLines(markdown) {
		target, ok := includeTarget(line)
		if !ok {
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}

		path := filepath.Join(dir, target)
		content, err := p.fs.ReadFile(path)
		if err != nil {
			if rustindexed.ErrorCode(err) == rustindexed.ENOTFOUND {
				p.logger.Warn("include not found", "path", path)
			} else {
				p.logger.Warn("include unreadable", "path", path, "err", err)
			}
			continue
		}
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// includeTarget extracts the file path from an include directive line.
func includeTarget(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "{{") {
		return "", false
	}
	s, _, _ = strings.Cut(strings.TrimPrefix(s, "{{"), "}}")
	s = strings.TrimSpace(s)

	for _, kw := range includeKeywords {
		if rest, ok := strings.CutPrefix(s, kw); ok {
			path, _, _ := strings.Cut(strings.TrimSpace(rest), ":")
			path = strings.TrimSpace(path)
			return path, path != ""
		}
	}
	return "", false
}

func (p *Parser) render(markdown string) *rustindexed.ParsedPage {
	page := &rustindexed.ParsedPage{}

	var text, code strings.Builder
	inCode := false
	flush := func() {
		block := strings.TrimRight(strings.TrimLeft(code.String(), "\n"), " \t\n")
		if block != "" {
			page.CodeBlocks = append(page.CodeBlocks, block)
		}
		code.Reset()
	}

	for _, line := range splitLines(markdown) {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), fence) {
			if inCode {
				flush()
			}
			inCode = !inCode
			continue
		}

		if inCode {
			code.WriteString(strings.TrimRight(line, " \t"))
			code.WriteByte('\n')
			continue
		}

		line, keep := p.cleanLine(line)
		if !keep {
			continue
		}
		text.WriteString(line)
		text.WriteByte('\n')
	}

	// An unterminated fence still yields its block.
	if inCode {
		flush()
	}

	page.Text = strings.TrimSpace(text.String())
	return page
}

// cleanLine strips markup from a prose line. The rules are applied until
// the line stops changing so that rendered text is a fixed point. Returns
// false for lines that carry no content.
func (p *Parser) cleanLine(line string) (string, bool) {
	for {
		if isUnderline(line) || p.refDef.MatchString(line) {
			return "", false
		}

		next := p.prefix.ReplaceAllString(line, "")
		next = p.tag.ReplaceAllString(next, "")
		next = p.link.ReplaceAllString(next, "$1")
		next = p.refLink.ReplaceAllString(next, "$1")
		next = p.bracket.ReplaceAllString(next, "$1")
		next = strings.ReplaceAll(next, "`", "")

		// Quoted directives such as `{{#include x}}` stay quoted so the
		// text never resolves as an include when parsed again.
		if _, ok := includeTarget(next); ok {
			return line, true
		}
		if next == line {
			return line, true
		}
		line = next
	}
}

// isUnderline reports whether line is a setext underline or rule.
func isUnderline(line string) bool {
	return strings.HasPrefix(line, "---") || strings.HasPrefix(line, "___")
}

// splitLines splits s on newlines, dropping carriage returns and the empty
// element produced by a trailing newline.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
