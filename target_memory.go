// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"time"
)

// TargetMemory is a [Target] that keeps all materialized files and directories
// in memory. It is intended for previews and tests.
type TargetMemory struct {
	nodes map[string]*memoryNode
}

// memoryNode is a file or directory in a [TargetMemory].
type memoryNode struct {
	name    string
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewTargetMemory creates an empty in-memory target.
func NewTargetMemory() *TargetMemory {
	return &TargetMemory{nodes: make(map[string]*memoryNode)}
}

// CreateDir creates the directory at path and all missing parents.
func (m *TargetMemory) CreateDir(path string, mode fs.FileMode) error {
	path = filepath.Clean(path)
	if path == "." || path == string(filepath.Separator) || path == filepath.VolumeName(path) {
		return nil
	}
	if n, ok := m.nodes[path]; ok {
		if n.mode.IsDir() {
			return nil
		}
		return fmt.Errorf("failed to create directory: %s: %w", path, fs.ErrExist)
	}
	if err := m.CreateDir(filepath.Dir(path), mode); err != nil {
		return err
	}
	m.nodes[path] = &memoryNode{name: path, mode: fs.ModeDir | mode.Perm()}
	return nil
}

// CreateFile creates or replaces the file at path with the content of src.
func (m *TargetMemory) CreateFile(path string, src io.Reader, mode fs.FileMode) (int64, error) {
	path = filepath.Clean(path)
	parent := filepath.Dir(path)
	if parent != "." {
		if n, ok := m.nodes[parent]; !ok || !n.mode.IsDir() {
			return 0, fmt.Errorf("failed to create file: parent %s: %w", parent, fs.ErrNotExist)
		}
	}
	if n, ok := m.nodes[path]; ok {
		if n.mode.IsDir() {
			return 0, fmt.Errorf("failed to create file: %s is a directory", path)
		}
		mode = n.mode
	}

	var buf bytes.Buffer
	written, err := io.Copy(&buf, src)
	if err != nil {
		return written, fmt.Errorf("failed to write file: %w", err)
	}
	m.nodes[path] = &memoryNode{name: path, data: buf.Bytes(), mode: mode.Perm()}
	return written, nil
}

// Lstat returns the FileInfo of path.
func (m *TargetMemory) Lstat(path string) (fs.FileInfo, error) {
	n, ok := m.nodes[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "lstat", Path: path, Err: fs.ErrNotExist}
	}
	return &memoryFileInfo{n}, nil
}

// Chmod changes the permission bits of path.
func (m *TargetMemory) Chmod(name string, mode fs.FileMode) error {
	n, ok := m.nodes[filepath.Clean(name)]
	if !ok {
		return &fs.PathError{Op: "chmod", Path: name, Err: fs.ErrNotExist}
	}
	n.mode = n.mode.Type() | mode.Perm()
	return nil
}

// Chtimes changes the modification time of path. The access time is not stored.
func (m *TargetMemory) Chtimes(name string, _, mtime time.Time) error {
	n, ok := m.nodes[filepath.Clean(name)]
	if !ok {
		return &fs.PathError{Op: "chtimes", Path: name, Err: fs.ErrNotExist}
	}
	n.modTime = mtime
	return nil
}

// ReadFile returns the content of the file at path.
func (m *TargetMemory) ReadFile(path string) ([]byte, error) {
	n, ok := m.nodes[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
	}
	if n.mode.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fmt.Errorf("is a directory")}
	}
	return n.data, nil
}

// Paths returns all stored paths in lexical order.
func (m *TargetMemory) Paths() []string {
	paths := make([]string, 0, len(m.nodes))
	for p := range m.nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// memoryFileInfo implements fs.FileInfo for a memoryNode.
type memoryFileInfo struct {
	n *memoryNode
}

func (fi *memoryFileInfo) Name() string       { return filepath.Base(fi.n.name) }
func (fi *memoryFileInfo) Size() int64        { return int64(len(fi.n.data)) }
func (fi *memoryFileInfo) Mode() fs.FileMode  { return fi.n.mode }
func (fi *memoryFileInfo) ModTime() time.Time { return fi.n.modTime }
func (fi *memoryFileInfo) IsDir() bool        { return fi.n.mode.IsDir() }
func (fi *memoryFileInfo) Sys() interface{}   { return nil }
