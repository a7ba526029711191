package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes every HTTP exchange to <dir>/<message id>.http
type FilesystemOutput struct {
	dir string
}

// NewFilesystemOutput starts from an empty `dir`, dumps of a previous run are
// removed.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err == nil {
		err = os.MkdirAll(dir, 0755)
	}
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{dir: dir}, nil
}

func (o FilesystemOutput) Path(id string) string {
	return filepath.Join(o.dir, id+".http")
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(o.Path(id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to dump http exchange", "id", id, "err", err)
	}
}
