package utils

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return true, err
}

// CreateFile creates or truncates path, creating missing parent directories first.
func CreateFile(path string) (*os.File, error) {
	eb := oops.With("file_path", path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eb.Wrapf(err, "mkdir error")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, eb.Wrapf(err, "file create error")
	}
	return f, nil
}
