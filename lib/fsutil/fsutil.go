package fsutil

import (
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Exists reports whether something exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFileAtomic creates the parent directories of `path` and replaces its
// contents so a reader never observes a partially written file.
func WriteFileAtomic(path string, contents []byte, perm os.FileMode) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, contents, perm, renameio.WithStaticPermissions(perm))
}
