package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/rustindexed"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	scope := rustindexed.ScopeAll
	if c.Code {
		scope = rustindexed.ScopeCodeOnly
	}

	results, err := deps.Searcher.Search(deps.Ctx, c.Query, scope)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rustindexed.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if results == nil {
			results = []*rustindexed.SearchResult{}
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", c.Query)
		return nil
	}
	fmt.Fprintln(deps.Stdout, rustindexed.FormatResults(results))
	return nil
}
