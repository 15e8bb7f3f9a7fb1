package main

import (
	"fmt"

	"github.com/fwojciec/rustindexed"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	res, err := deps.Indexer.IndexAll(deps.Ctx, deps.Config.Sources)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", rustindexed.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d pages and %d code blocks from %d sources\n",
		res.Pages, res.CodeBlocks, len(deps.Config.Sources))
	if res.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "Skipped %d missing pages\n", res.Skipped)
	}
	return nil
}
