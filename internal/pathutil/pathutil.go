// Package pathutil normalizes filesystem paths used as work-directory
// identities. Two calls for paths naming the same location must return
// string-equal results, so everything is made absolute, symlink-resolved,
// and cleaned.
package pathutil

import (
	"errors"
	"os"
	"path/filepath"
)

// Canonicalize returns the canonical absolute form of path: absolute,
// cleaned, with symlinks resolved. A path that does not exist yet is
// returned in cleaned absolute form without symlink resolution, so callers
// may reference directories they are about to create.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return filepath.Clean(abs), nil
		}
		return "", err
	}
	return resolved, nil
}

// FileExists reports whether path names an existing file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsRegularFile reports whether path names an existing regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
