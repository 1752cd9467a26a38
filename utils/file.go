package utils

import (
	"fmt"
	"os"
)

// EnsureDirs creates export destinations (and parents) with 0o750 permissions.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ValidFile reports whether path is a non-empty regular file, i.e. a blob
// that a previous export already wrote in full.
func ValidFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
