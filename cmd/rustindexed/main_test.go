package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/rustindexed"
	main "github.com/fwojciec/rustindexed/cmd/rustindexed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupProject writes a small book and a config pointing at it, returning
// the config path.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "book", "src", "SUMMARY.md"), "# Summary\n\n- [Ownership](ownership.md)\n- [Closures](closures.md)\n")
	writeFile(t, filepath.Join(dir, "book", "src", "ownership.md"), "# What is Ownership?\n\nEach value has an owner.\n\n```rust\nlet s = String::from(\"hello\");\n```\n")
	writeFile(t, filepath.Join(dir, "book", "src", "closures.md"), "# Closures\n\nClosures capture their environment.\n\n```rust\nlet add = |a, b| a + b;\n```\n")

	config := fmt.Sprintf(`
[[sources]]
title = "The Book"
base_url = "https://doc.rust-lang.org/book"
directory = %q

[index]
page = %q
code = %q
`, filepath.Join(dir, "book", "src"), filepath.Join(dir, "indexes", "page.db"), filepath.Join(dir, "indexes", "code.db"))

	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, config)
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := main.NewMain().Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("indexes sources then searches and reports stats", func(t *testing.T) {
		t.Parallel()
		config := setupProject(t)

		stdout, _, err := run(t, "--config", config, "index")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Indexed 2 pages and 2 code blocks from 1 sources")

		stdout, _, err = run(t, "--config", config, "search", "--json", "owner")
		require.NoError(t, err)
		var results []*rustindexed.SearchResult
		require.NoError(t, json.Unmarshal([]byte(stdout), &results))
		require.NotEmpty(t, results)
		assert.Equal(t, "https://doc.rust-lang.org/book/ownership.html", results[0].URL)
		assert.Equal(t, "Ownership - The Book", results[0].Title)
		assert.Equal(t, rustindexed.KindPage, results[0].Kind)

		stdout, _, err = run(t, "--config", config, "search", "--code", "String")
		require.NoError(t, err)
		assert.Contains(t, stdout, `<b>String</b>::from("hello");`)

		stdout, _, err = run(t, "--config", config, "stats")
		require.NoError(t, err)
		assert.Contains(t, stdout, "page index: 2 documents, 2 unique bodies")
		assert.Contains(t, stdout, "code index: 2 documents, 2 unique bodies")
	})

	t.Run("falls back to fuzzy matching for misspelled queries", func(t *testing.T) {
		t.Parallel()
		config := setupProject(t)

		_, _, err := run(t, "--config", config, "index")
		require.NoError(t, err)

		stdout, _, err := run(t, "--config", config, "search", "--json", "closurs")
		require.NoError(t, err)
		var results []*rustindexed.SearchResult
		require.NoError(t, json.Unmarshal([]byte(stdout), &results))
		require.NotEmpty(t, results)
		assert.Equal(t, "https://doc.rust-lang.org/book/closures.html", results[0].URL)
	})

	t.Run("refuses to overwrite indexes without force", func(t *testing.T) {
		t.Parallel()
		config := setupProject(t)

		_, _, err := run(t, "--config", config, "index")
		require.NoError(t, err)

		_, stderr, err := run(t, "--config", config, "index")
		require.Error(t, err)
		assert.Equal(t, rustindexed.ECONFLICT, rustindexed.ErrorCode(err))
		assert.Contains(t, stderr, "--force")

		_, _, err = run(t, "--config", config, "index", "--force")
		require.NoError(t, err)
	})

	t.Run("search before index returns unavailable", func(t *testing.T) {
		t.Parallel()
		config := setupProject(t)

		_, stderr, err := run(t, "--config", config, "search", "owner")

		require.Error(t, err)
		assert.Equal(t, rustindexed.EUNAVAILABLE, rustindexed.ErrorCode(err))
		assert.Contains(t, stderr, "rustindexed index")
	})

	t.Run("missing config file returns not found", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "stats")

		require.Error(t, err)
		assert.Equal(t, rustindexed.ENOTFOUND, rustindexed.ErrorCode(err))
		assert.Contains(t, stderr, "RUSTINDEXED_CONFIG")
	})
}
