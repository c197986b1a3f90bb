// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// WalkOption is a function pointer to implement the option pattern for [Walk].
type WalkOption func(*walkConfig)

// walkConfig holds the options of [Walk].
type walkConfig struct {
	ctx        context.Context
	dirEntries bool
	logger     logger
}

// WithDirEntries decides if [Walk] emits directory entries. The default is true.
func WithDirEntries(enable bool) WalkOption {
	return func(c *walkConfig) {
		c.dirEntries = enable
	}
}

// WithWalkContext lets [Walk] stop as soon as ctx is canceled.
func WithWalkContext(ctx context.Context) WalkOption {
	return func(c *walkConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithWalkLogger sets the logger that reports skipped nodes.
func WithWalkLogger(l logger) WalkOption {
	return func(c *walkConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Walk collects the directory tree below root into entries. Directories are
// visited depth-first in lexical order and each directory entry is emitted
// before its children. Entry paths are relative to root and forward slash
// separated. Symlinks and other non-regular nodes are skipped.
//
// If root is a regular file, a single entry named after the file is returned.
func Walk(root string, opts ...WalkOption) (*Entries, error) {
	cfg := &walkConfig{
		ctx:        context.Background(),
		dirEntries: true,
		logger:     defaultLogger,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	entries := NewEntries()

	stat, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot walk %s: %w", root, err)
	}
	if stat.Mode().IsRegular() {
		if err := addFile(entries, root, filepath.Base(root), stat); err != nil {
			return nil, err
		}
		return entries, nil
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("cannot walk %s: not a directory or regular file", root)
	}

	if err := walkDir(cfg, entries, root, ""); err != nil {
		return nil, err
	}
	return entries, nil
}

// walkDir adds the children of dir to entries. rel is the forward slash path of
// dir relative to the walk root.
func walkDir(cfg *walkConfig, entries *Entries, dir string, rel string) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	for _, child := range children {
		if err := cfg.ctx.Err(); err != nil {
			return err
		}

		name := child.Name()
		childPath := filepath.Join(dir, name)
		childRel := path.Join(rel, name)

		// the type bits of a DirEntry come from lstat, so symlinks are never followed
		switch {
		case child.Type()&fs.ModeSymlink != 0:
			cfg.logger.Debug("skip symlink", "path", childRel)
		case child.IsDir():
			info, err := child.Info()
			if err != nil {
				return fmt.Errorf("cannot stat %s: %w", childPath, err)
			}
			if cfg.dirEntries {
				if err := entries.Insert(Entry{
					Path:    childRel,
					IsDir:   true,
					Mode:    Perm(info.Mode()),
					ModTime: info.ModTime(),
				}); err != nil {
					return err
				}
			}
			if err := walkDir(cfg, entries, childPath, childRel); err != nil {
				return err
			}
		case child.Type().IsRegular():
			info, err := child.Info()
			if err != nil {
				return fmt.Errorf("cannot stat %s: %w", childPath, err)
			}
			if err := addFile(entries, childPath, childRel, info); err != nil {
				return err
			}
		default:
			cfg.logger.Debug("skip irregular file", "path", childRel, "type", child.Type().String())
		}
	}
	return nil
}

// addFile reads the file at name and inserts it as rel.
func addFile(entries *Entries, name string, rel string, info fs.FileInfo) error {
	content, err := os.ReadFile(name)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", name, err)
	}
	return entries.Insert(Entry{
		Path:    rel,
		Content: content,
		Mode:    Perm(info.Mode()),
		ModTime: info.ModTime(),
	})
}
