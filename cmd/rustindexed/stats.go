package main

import (
	"fmt"

	"github.com/fwojciec/rustindexed"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	indexes := []struct {
		name  string
		stats rustindexed.StatsProvider
	}{
		{"page", deps.PageStats},
		{"code", deps.CodeStats},
	}

	for _, idx := range indexes {
		stats, err := idx.stats.Stats(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", rustindexed.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s index: %d documents, %d unique bodies\n", idx.name, stats.Documents, stats.UniqueBodies)
	}
	return nil
}
