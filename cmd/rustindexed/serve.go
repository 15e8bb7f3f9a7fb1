package main

import (
	"cmp"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	rihttp "github.com/fwojciec/rustindexed/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled
// or the process receives SIGINT or SIGTERM.
func (c *ServeCmd) Run(deps *Dependencies) error {
	cfg := deps.Config.Server
	srv := rihttp.NewServer(deps.Searcher, deps.Logger, rihttp.WithRateLimit(cfg.RateLimit, cfg.Burst))
	srv.Addr = cmp.Or(c.Addr, cfg.Addr)

	if err := srv.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot listen on %s\n", srv.Addr)
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.URL())

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Serve)
	g.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})
	return g.Wait()
}
