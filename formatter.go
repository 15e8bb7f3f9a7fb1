package rustindexed

import (
	"strconv"
	"strings"
)

// FormatResults formats search results for terminal display.
// Each result shows its title and URL, followed by the snippet or, for
// results carrying a body, the body indented by four spaces.
// Results are separated by blank lines.
func FormatResults(results []*SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.URL
		}

		var b strings.Builder
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(title)
		b.WriteString("\n   ")
		b.WriteString(r.URL)

		switch {
		case r.Body != "":
			for _, line := range strings.Split(r.Body, "\n") {
				b.WriteString("\n    ")
				b.WriteString(line)
			}
		case r.Snippet != "":
			b.WriteString("\n   ")
			b.WriteString(r.Snippet)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}
