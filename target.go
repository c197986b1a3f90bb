// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Target specifies all functions that are needed to materialize entries.
type Target interface {
	// CreateFile creates or truncates the file at path and writes src to it. The mode parameter
	// is the file mode for a newly created file. The number of bytes written is returned.
	CreateFile(path string, src io.Reader, mode fs.FileMode) (int64, error)

	// CreateDir creates the directory at path and all missing parents with the specified mode.
	// If the directory already exists, nothing is done.
	CreateDir(path string, mode fs.FileMode) error

	// Lstat see docs for os.Lstat. Main purpose is to check for symlinks in the materialization path.
	Lstat(path string) (fs.FileInfo, error)

	// Chmod see docs for os.Chmod. Targets without posix permissions return nil without changes.
	Chmod(name string, mode fs.FileMode) error

	// Chtimes see docs for os.Chtimes.
	Chtimes(name string, atime, mtime time.Time) error
}

// localPath converts the entry path name into a host specific path
// that is guaranteed to stay below its base directory.
func localPath(name string) (string, error) {
	p := filepath.FromSlash(name)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return p, nil
}

// securityCheck checks that no element of name below dst is a symlink.
//
// The function returns an error if a symlink is detected or if an element
// cannot be inspected for another reason than not existing.
func securityCheck(t Target, dst string, name string) error {
	elements := strings.Split(name, string(os.PathSeparator))
	for i := range elements {
		checkPath := filepath.Join(dst, filepath.Join(elements[:i+1]...))
		stat, err := t.Lstat(checkPath)
		if errors.Is(err, fs.ErrNotExist) {
			// nothing below a missing element can exist
			return nil
		}
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		if stat.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s", ErrSymlinkInPath, filepath.Join(elements[:i+1]...))
		}
	}
	return nil
}
