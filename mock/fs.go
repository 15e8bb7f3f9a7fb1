package mock

import "github.com/fwojciec/rustindexed"

var _ rustindexed.FileSystem = (*FileSystem)(nil)

// FileSystem is a mock implementation of rustindexed.FileSystem.
type FileSystem struct {
	ReadFileFn  func(path string) (string, error)
	ListFilesFn func(dir string, recursive bool, exts ...string) ([]string, error)
}

func (f *FileSystem) ReadFile(path string) (string, error) {
	return f.ReadFileFn(path)
}

func (f *FileSystem) ListFiles(dir string, recursive bool, exts ...string) ([]string, error) {
	return f.ListFilesFn(dir, recursive, exts...)
}

// MapFileSystem returns a FileSystem mock serving files from a map keyed by
// path. Missing paths return ENOTFOUND.
func MapFileSystem(files map[string]string) *FileSystem {
	return &FileSystem{
		ReadFileFn: func(path string) (string, error) {
			content, ok := files[path]
			if !ok {
				return "", rustindexed.Errorf(rustindexed.ENOTFOUND, "file %q not found", path)
			}
			return content, nil
		},
	}
}
