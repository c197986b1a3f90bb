// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Write materializes entries below dst on the configured [Target]. The default
// target is the local disk.
//
// Directories are created recursively, files are created with their parents.
// Permission bits and modification times of entries are restored if present.
// Directory attributes are applied after all files are written, deepest
// directory first, so that read-only directories do not block their children.
func Write(ctx context.Context, entries *Entries, dst string, opts ...ConfigOption) error {
	cfg := NewConfig(opts...)
	return materialize(ctx, cfg.Target(), cfg, entries, dst)
}

// WriteTo materializes entries below dst on the target t. See [Write].
func WriteTo(ctx context.Context, t Target, entries *Entries, dst string, opts ...ConfigOption) error {
	cfg := NewConfig(opts...)
	return materialize(ctx, t, cfg, entries, dst)
}

// pendingDir is a directory whose attributes are applied after all files.
type pendingDir struct {
	path  string
	entry Entry
}

// materialize is the shared implementation of [Write] and [WriteTo].
func materialize(ctx context.Context, t Target, cfg *Config, entries *Entries, dst string) error {
	logger := cfg.Logger()

	if err := t.CreateDir(dst, cfg.CreateDirMode()); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	var dirs []pendingDir
	for _, e := range entries.All() {

		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return err
		}

		name, err := localPath(e.Path)
		if err != nil {
			return err
		}
		if err := securityCheck(t, dst, name); err != nil {
			return err
		}
		path := filepath.Join(dst, name)

		if e.IsDir {
			logger.Debug("create directory", "path", e.Path)
			if err := t.CreateDir(path, cfg.CreateDirMode()); err != nil {
				return err
			}
			dirs = append(dirs, pendingDir{path: path, entry: e})
			continue
		}

		logger.Debug("create file", "path", e.Path, "size", e.Size())
		if err := t.CreateDir(filepath.Dir(path), cfg.CreateDirMode()); err != nil {
			return err
		}
		if _, err := t.CreateFile(path, bytes.NewReader(e.Content), cfg.CreateFileMode()); err != nil {
			return err
		}
		if err := applyAttributes(t, cfg, path, e); err != nil {
			return err
		}
	}

	// deepest directories first
	sort.SliceStable(dirs, func(i, j int) bool {
		return strings.Count(dirs[i].path, string(filepath.Separator)) >
			strings.Count(dirs[j].path, string(filepath.Separator))
	})
	for _, d := range dirs {
		if err := applyAttributes(t, cfg, d.path, d.entry); err != nil {
			return err
		}
	}

	return nil
}

// applyAttributes restores the permission bits and the modification time of e
// on path. Failing to restore permission bits is logged and skipped.
func applyAttributes(t Target, cfg *Config, path string, e Entry) error {
	if e.Mode != nil {
		if err := t.Chmod(path, *e.Mode); err != nil {
			cfg.Logger().Warn("cannot restore permissions", "path", e.Path, "mode", e.Mode.String(), "error", err)
		}
	}
	if !e.ModTime.IsZero() {
		if err := t.Chtimes(path, time.Now(), e.ModTime); err != nil {
			return fmt.Errorf("failed to restore modification time of %s: %w", e.Path, err)
		}
	}
	return nil
}
