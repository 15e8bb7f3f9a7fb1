// Package fs provides file-based access to documentation sources.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/rustindexed"
)

// Ensure FileSystem implements rustindexed.FileSystem at compile time.
var _ rustindexed.FileSystem = (*FileSystem)(nil)

// FileSystem reads sources from the local disk. Relative paths resolve
// against the process working directory.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// ReadFile returns the content of the file at path.
func (f *FileSystem) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return "", rustindexed.Errorf(rustindexed.ENOTFOUND, "file %q not found", path)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListFiles returns sorted slash-separated paths relative to dir.
func (f *FileSystem) ListFiles(dir string, recursive bool, exts ...string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, rustindexed.Errorf(rustindexed.ENOTFOUND, "directory %q not found", dir)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, rustindexed.Errorf(rustindexed.EINVALID, "%q is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !hasExt(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// hasExt reports whether path ends in one of exts, ignoring case.
func hasExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
