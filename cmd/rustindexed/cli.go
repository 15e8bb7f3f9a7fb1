package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/rustindexed"
	"github.com/fwojciec/rustindexed/ingest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config *rustindexed.Config
	Logger *slog.Logger

	Indexer   *ingest.Indexer
	Searcher  rustindexed.Searcher
	PageStats rustindexed.StatsProvider
	CodeStats rustindexed.StatsProvider
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `short:"c" default:"config.toml" env:"RUSTINDEXED_CONFIG" help:"Configuration file"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Index  IndexCmd  `cmd:"" help:"Build the page and code indexes from configured sources"`
	Search SearchCmd `cmd:"" help:"Search the indexes"`
	Serve  ServeCmd  `cmd:"" help:"Serve the search API over HTTP"`
	Stats  StatsCmd  `cmd:"" help:"Show document counts for both indexes"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Force bool `short:"f" help:"Replace existing index files"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query; quote words to match a phrase"`
	Code  bool   `help:"Search code blocks only"`
	JSON  bool   `name:"json" help:"Print results as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address, overriding server.addr"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
