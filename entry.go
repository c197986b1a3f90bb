// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"io/fs"
	"time"
)

// Entry is a single archive member, either a file or a directory.
type Entry struct {
	// Path is the relative, forward slash separated path of the entry.
	Path string

	// Content holds the file content. It is always empty for directories.
	Content []byte

	// Mode holds the permission bits of the entry. If nil, no permissions
	// are restored during materialization.
	Mode *fs.FileMode

	// IsDir is true if the entry is a directory.
	IsDir bool

	// ModTime is the last modification time. The zero value means unknown.
	ModTime time.Time
}

// NewFile returns a file entry with the permission bits of mode.
func NewFile(path string, content []byte, mode fs.FileMode) Entry {
	return Entry{Path: path, Content: content, Mode: Perm(mode)}
}

// NewDir returns a directory entry without permission bits.
func NewDir(path string) Entry {
	return Entry{Path: path, IsDir: true}
}

// Perm returns a pointer to the permission bits of mode, for use as [Entry.Mode].
func Perm(mode fs.FileMode) *fs.FileMode {
	m := mode.Perm()
	return &m
}

// Size returns the content length of the entry.
func (e Entry) Size() int64 {
	return int64(len(e.Content))
}
