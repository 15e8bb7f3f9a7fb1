package sqlite

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rustindexed"
)

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// FTS5 reports malformed MATCH expressions with these fragments.
var syntaxErrors = []string{
	"fts5: syntax error",
	"fts5: parser stack overflow",
	"unterminated string",
	"no such column",
	"unknown special query",
}

// queryError maps MATCH failures caused by the query text to EINVALID and
// everything else to EUNAVAILABLE.
func queryError(path, expr string, err error) error {
	msg := err.Error()
	for _, frag := range syntaxErrors {
		if strings.Contains(msg, frag) {
			return rustindexed.Errorf(rustindexed.EINVALID, "cannot parse query %q: %v", expr, err)
		}
	}
	return unavailable(path, err)
}

func unavailable(path string, err error) error {
	return rustindexed.Errorf(rustindexed.EUNAVAILABLE, "index %q unreadable: %v", path, err)
}
