package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/rustindexed"
	rifs "github.com/fwojciec/rustindexed/fs"
	"github.com/fwojciec/rustindexed/goldmark"
	"github.com/fwojciec/rustindexed/goquery"
	"github.com/fwojciec/rustindexed/ingest"
	"github.com/fwojciec/rustindexed/mdbook"
	"github.com/fwojciec/rustindexed/ranking"
	rislog "github.com/fwojciec/rustindexed/slog"
	"github.com/fwojciec/rustindexed/sqlite"
	"github.com/fwojciec/rustindexed/viper"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Search limits applied by the ranking engine.
const (
	searchLimit = 50
	fuzzyLimit  = 10
)

// Main represents the program.
type Main struct {
	// Config is loaded from the --config file during Run unless already set.
	Config *rustindexed.Config

	// Index handles opened by Run.
	Pages *sqlite.Index
	Code  *sqlite.Index
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the index handles.
func (m *Main) Close() error {
	var errs []error
	if m.Pages != nil {
		errs = append(errs, m.Pages.Close())
	}
	if m.Code != nil {
		errs = append(errs, m.Code.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("rustindexed"),
		kong.Description("Full-text search over Rust documentation."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'rustindexed --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if m.Config == nil {
		cfg, err := viper.Load(cli.Config)
		if err != nil {
			if rustindexed.ErrorCode(err) == rustindexed.ENOTFOUND {
				fmt.Fprintln(stderr, "Hint: Pass --config or set RUSTINDEXED_CONFIG to use a different config file")
			}
			return err
		}
		m.Config = cfg
	}
	deps.Config = m.Config
	deps.Logger = newLogger(stderr, cli.Verbose)
	defer m.Close()

	switch command(kongCtx) {
	case "index":
		if err := m.createIndexes(ctx, cli.Index.Force); err != nil {
			if rustindexed.ErrorCode(err) == rustindexed.ECONFLICT {
				fmt.Fprintln(stderr, "Hint: Use --force to rebuild existing indexes")
			}
			return err
		}

		files := rifs.NewFileSystem()
		deps.Indexer = &ingest.Indexer{
			Pages:    rislog.NewLoggingIndexWriter(m.Pages, "page", deps.Logger),
			Code:     rislog.NewLoggingIndexWriter(m.Code, "code", deps.Logger),
			FS:       files,
			Markdown: mdbook.NewParser(files, deps.Logger),
			HTML:     goquery.NewHTMLParser(),
			Titles:   goldmark.NewTitleExtractor(),
			Logger:   deps.Logger,
		}

	case "search", "serve", "stats":
		if err := m.openIndexes(ctx); err != nil {
			fmt.Fprintln(stderr, "Hint: Run 'rustindexed index' to build the indexes")
			return err
		}

		ranker := &ranking.Ranker{
			Page:        rislog.NewLoggingIndex(m.Pages, "page", deps.Logger),
			Code:        rislog.NewLoggingIndex(m.Code, "code", deps.Logger),
			SearchLimit: searchLimit,
			FuzzyLimit:  fuzzyLimit,
		}
		deps.Searcher = rislog.NewLoggingSearcher(ranker, deps.Logger)
		deps.PageStats = m.Pages
		deps.CodeStats = m.Code
	}

	return kongCtx.Run(deps)
}

// createIndexes creates empty page and code indexes, removing existing
// files first when force is set.
func (m *Main) createIndexes(ctx context.Context, force bool) (err error) {
	paths := m.Config.Index
	if force {
		for _, path := range []string{paths.PagePath, paths.CodePath} {
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove index %s: %w", path, err)
			}
		}
	}

	if m.Pages, err = sqlite.Create(ctx, paths.PagePath); err != nil {
		return err
	}
	if m.Code, err = sqlite.Create(ctx, paths.CodePath, codeIndexOptions()...); err != nil {
		return err
	}
	return nil
}

// openIndexes opens committed indexes read-only.
func (m *Main) openIndexes(ctx context.Context) (err error) {
	paths := m.Config.Index
	if m.Pages, err = sqlite.Open(ctx, paths.PagePath); err != nil {
		return err
	}
	if m.Code, err = sqlite.Open(ctx, paths.CodePath, codeIndexOptions()...); err != nil {
		return err
	}
	return nil
}

// codeIndexOptions return full block bodies and skip snippets, so code
// results print whole and highlighted.
func codeIndexOptions() []sqlite.Option {
	return []sqlite.Option{sqlite.WithReturnBody(), sqlite.WithoutSnippet()}
}

// command returns the name of the selected subcommand.
func command(ctx *kong.Context) string {
	name, _, _ := strings.Cut(ctx.Command(), " ")
	return name
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
