// Package ingest walks documentation sources, parses their pages, and feeds
// the page and code indexes.
package ingest

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/rustindexed"
	"golang.org/x/sync/errgroup"
)

// SummaryFile is the table of contents of an mdBook source.
const SummaryFile = "SUMMARY.md"

// Indexer orchestrates ingestion of documentation sources.
// Pages are parsed concurrently and written in source order.
type Indexer struct {
	Pages    rustindexed.IndexWriter
	Code     rustindexed.IndexWriter
	FS       rustindexed.FileSystem
	Markdown rustindexed.PageParser
	HTML     rustindexed.HTMLParser
	Titles   rustindexed.TitleExtractor
	Logger   *slog.Logger

	// Concurrency bounds parallel page parsing. Defaults to 4.
	Concurrency int
}

// Result holds the outcome of an ingestion run.
type Result struct {
	Pages      int
	CodeBlocks int
	Skipped    int
}

func (r *Result) add(o *Result) {
	r.Pages += o.Pages
	r.CodeBlocks += o.CodeBlocks
	r.Skipped += o.Skipped
}

// job is one page to parse.
type job struct {
	url   string
	title string // page title; empty means derive from content
	path  string // file to read
	name  string // fallback title
}

// parsed is the outcome of parsing one job.
type parsed struct {
	title   string
	page    *rustindexed.ParsedPage
	skipped bool
}

// IndexAll ingests every source, then commits both indexes.
func (i *Indexer) IndexAll(ctx context.Context, sources []rustindexed.SourceSpec) (*Result, error) {
	total := &Result{}
	for idx := range sources {
		res, err := i.IndexSource(ctx, &sources[idx])
		if err != nil {
			return nil, err
		}
		total.add(res)
	}

	if err := i.Pages.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit page index: %w", err)
	}
	if err := i.Code.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit code index: %w", err)
	}
	return total, nil
}

// IndexSource parses every page of src and adds it to the indexes without
// committing. Missing chapters are skipped with a warning.
func (i *Indexer) IndexSource(ctx context.Context, src *rustindexed.SourceSpec) (*Result, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	var (
		jobs []job
		err  error
	)
	switch src.Format {
	case rustindexed.FormatMdBook:
		jobs, err = i.bookJobs(src)
	case rustindexed.FormatMarkdown:
		jobs, err = i.markdownJobs(src)
	case rustindexed.FormatHTML:
		jobs, err = i.htmlJobs(src)
	}
	if err != nil {
		return nil, err
	}

	pages, err := i.parseAll(ctx, src, jobs)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for n, p := range pages {
		if p.skipped {
			res.Skipped++
			continue
		}

		doc := &rustindexed.IndexedDocument{
			URL:   jobs[n].url,
			Title: src.DocumentTitle(p.title),
			Body:  p.page.Text,
		}
		if _, err := i.Pages.AddDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("add page %s: %w", doc.URL, err)
		}
		res.Pages++

		for _, block := range p.page.CodeBlocks {
			code := &rustindexed.IndexedDocument{URL: doc.URL, Title: doc.Title, Body: block}
			if _, err := i.Code.AddDocument(ctx, code); err != nil {
				return nil, fmt.Errorf("add code block %s: %w", doc.URL, err)
			}
			res.CodeBlocks++
		}
	}

	i.logger().Info("indexed source",
		"source", src.Title,
		"format", string(src.Format),
		"pages", res.Pages,
		"code_blocks", res.CodeBlocks,
		"skipped", res.Skipped)
	return res, nil
}

// bookJobs lists the chapters of an mdBook in table of contents order.
func (i *Indexer) bookJobs(src *rustindexed.SourceSpec) ([]job, error) {
	summary, err := i.FS.ReadFile(filepath.Join(src.Directory, SummaryFile))
	if rustindexed.ErrorCode(err) == rustindexed.ENOTFOUND {
		return nil, rustindexed.Errorf(rustindexed.ENOTFOUND, "source %q: %s not found in %s", src.Title, SummaryFile, src.Directory)
	}
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}

	entries := rustindexed.ParseSummary(summary)
	jobs := make([]job, 0, len(entries))
	for _, e := range entries {
		jobs = append(jobs, job{
			url:   src.URL(e.Path + ".html"),
			title: e.Title,
			path:  filepath.Join(src.Directory, filepath.FromSlash(e.Path)+".md"),
		})
	}
	return jobs, nil
}

// markdownJobs lists every markdown file below the source directory.
func (i *Indexer) markdownJobs(src *rustindexed.SourceSpec) ([]job, error) {
	files, err := i.FS.ListFiles(src.Directory, true, ".md")
	if err != nil {
		return nil, fmt.Errorf("list markdown files: %w", err)
	}

	jobs := make([]job, 0, len(files))
	for _, rel := range files {
		if path.Base(rel) == SummaryFile {
			continue
		}
		stem := strings.TrimSuffix(rel, path.Ext(rel))
		jobs = append(jobs, job{
			url:  src.URL(stem + ".html"),
			path: filepath.Join(src.Directory, filepath.FromSlash(rel)),
			name: path.Base(stem),
		})
	}
	return jobs, nil
}

// htmlJobs lists the HTML files directly in the source directory.
func (i *Indexer) htmlJobs(src *rustindexed.SourceSpec) ([]job, error) {
	files, err := i.FS.ListFiles(src.Directory, false, ".html", ".htm")
	if err != nil {
		return nil, fmt.Errorf("list html files: %w", err)
	}

	jobs := make([]job, 0, len(files))
	for _, rel := range files {
		jobs = append(jobs, job{
			url:  src.URL(rel),
			path: filepath.Join(src.Directory, filepath.FromSlash(rel)),
			name: rel,
		})
	}
	return jobs, nil
}

// parseAll parses jobs with bounded concurrency, preserving job order.
func (i *Indexer) parseAll(ctx context.Context, src *rustindexed.SourceSpec, jobs []job) ([]parsed, error) {
	concurrency := i.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]parsed, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for n := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := i.parse(src, &jobs[n])
			if err != nil {
				return err
			}
			results[n] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (i *Indexer) parse(src *rustindexed.SourceSpec, j *job) (parsed, error) {
	content, err := i.FS.ReadFile(j.path)
	if rustindexed.ErrorCode(err) == rustindexed.ENOTFOUND {
		i.logger().Warn("page not found, skipping", "source", src.Title, "path", j.path)
		return parsed{skipped: true}, nil
	}
	if err != nil {
		return parsed{}, fmt.Errorf("read page %s: %w", j.path, err)
	}

	if src.Format == rustindexed.FormatHTML {
		page, title, err := i.HTML.ParseHTML(content)
		if err != nil {
			return parsed{}, fmt.Errorf("parse page %s: %w", j.path, err)
		}
		return parsed{title: cmp.Or(title, j.name), page: page}, nil
	}

	title := j.title
	if title == "" {
		title = cmp.Or(i.Titles.ExtractTitle(content), j.name)
	}
	return parsed{title: title, page: i.Markdown.ParsePage(content, filepath.Dir(j.path))}, nil
}

func (i *Indexer) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return i.Logger
}
