package sqlite

import (
	"strings"
	"unicode/utf8"
)

// Snippet markup produced by FTS5 snippet().
const (
	snippetOpen     = "<b>"
	snippetClose    = "</b>"
	snippetEllipsis = "..."
)

// maxSnippetChars bounds a rendered snippet, markers and ellipses included.
const maxSnippetChars = 80

// snippetContext is how much text before the first highlight a trimmed
// snippet tries to keep.
const snippetContext = 20

type snippetRune struct {
	r         rune
	highlight bool
}

// trimSnippet shortens a flattened snippet to at most limit runes. The
// window starts near the first highlight, snaps to word boundaries where it
// can and always closes open markers.
func trimSnippet(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	text := parseSnippet(s)

	first := 0
	for i, c := range text {
		if c.highlight {
			first = i
			break
		}
	}

	start := max(first-snippetContext, 0)
	if start > 0 {
		start = min(nextWordStart(text, start), first)
	}

	end := start
	for end < len(text) && utf8.RuneCountInString(renderSnippet(text, start, end+1)) <= limit {
		end++
	}

	if end < len(text) {
		lastHighlight := start
		for i := start; i < end; i++ {
			if text[i].highlight {
				lastHighlight = i
			}
		}
		for i := end - 1; i > lastHighlight; i-- {
			if text[i].r == ' ' {
				end = i
				break
			}
		}
	}
	return strings.TrimSpace(renderSnippet(text, start, end))
}

// parseSnippet strips markers from s, recording which runes were inside
// a highlight.
func parseSnippet(s string) []snippetRune {
	text := make([]snippetRune, 0, len(s))
	highlight := false
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], snippetOpen):
			highlight = true
			i += len(snippetOpen)
		case strings.HasPrefix(s[i:], snippetClose):
			highlight = false
			i += len(snippetClose)
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			text = append(text, snippetRune{r: r, highlight: highlight})
			i += size
		}
	}
	return text
}

// nextWordStart returns i if it begins a word, otherwise the index after
// the next space, or len(text) when there is none.
func nextWordStart(text []snippetRune, i int) int {
	if text[i-1].r == ' ' {
		return i
	}
	for j := i; j < len(text); j++ {
		if text[j].r == ' ' {
			return j + 1
		}
	}
	return len(text)
}

func renderSnippet(text []snippetRune, start, end int) string {
	var b strings.Builder
	if start > 0 {
		b.WriteString(snippetEllipsis)
	}
	highlight := false
	for _, c := range text[start:end] {
		if c.highlight != highlight {
			if c.highlight {
				b.WriteString(snippetOpen)
			} else {
				b.WriteString(snippetClose)
			}
			highlight = c.highlight
		}
		b.WriteRune(c.r)
	}
	if highlight {
		b.WriteString(snippetClose)
	}
	if end < len(text) {
		b.WriteString(snippetEllipsis)
	}
	return b.String()
}
