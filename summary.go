package rustindexed

import "strings"

// ParseSummary extracts chapter links from a SUMMARY.md table of contents.
// Lines that are not a single "[title](path.md)" link are dropped, as are
// entries whose title or path comes out empty. Order follows the input and
// duplicates are kept.
func ParseSummary(s string) []TocEntry {
	var entries []TocEntry
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "](")
		if len(parts) != 2 {
			continue
		}

		entry := TocEntry{
			Title: linkDescription(parts[0]),
			Path:  strings.ReplaceAll(parts[1], ".md)", ""),
		}
		if entry.Title == "" || entry.Path == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// linkDescription drops everything up to and including the first '['.
func linkDescription(s string) string {
	if _, after, ok := strings.Cut(s, "["); ok {
		return after
	}
	return s
}
