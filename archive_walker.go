// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"
)

// archiveWalker is an interface that represents a file walker in an archive
type archiveWalker interface {
	Type() string
	Next() (archiveEntry, error)
}

// archiveEntry is an interface that represents a file in an archive
type archiveEntry interface {
	IsDir() bool
	IsRegular() bool
	Mode() (fs.FileMode, bool)
	ModTime() time.Time
	Name() string
	Open() (io.ReadCloser, error)
	Size() int64
}

// collect reads all directories and regular files from w into a new collection.
// Symlinks, devices and other special members are skipped, as is the archive
// root directory ("./"). The summed content of all files may not exceed limit
// bytes, unless limit is -1.
func collect(w archiveWalker, limit int64) (*Entries, error) {
	entries := NewEntries()
	remaining := limit
	for {
		ae, err := w.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s entry: %w", w.Type(), err)
		}

		// skip unsupported members
		if !ae.IsDir() && !ae.IsRegular() {
			continue
		}
		if ae.IsDir() && isRootPath(ae.Name()) {
			continue
		}

		e := Entry{Path: ae.Name(), IsDir: ae.IsDir(), ModTime: ae.ModTime()}
		if mode, ok := ae.Mode(); ok {
			e.Mode = Perm(mode)
		}
		if !e.IsDir {
			var n int64
			if e.Content, n, err = readAll(ae, remaining); err != nil {
				return nil, fmt.Errorf("cannot read %s entry %q: %w", w.Type(), ae.Name(), err)
			}
			if remaining != -1 {
				remaining -= n
			}
		}

		if err := entries.Insert(e); err != nil {
			return nil, err
		}
	}
}

// readAll reads the full content of ae, failing with [ErrInputTooLarge] if it
// is larger than limit bytes. The size declared in the member header is not
// trusted. The number of bytes read is returned alongside the content.
func readAll(ae archiveEntry, limit int64) ([]byte, int64, error) {
	rc, err := ae.Open()
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	ler := newLimitErrorReader(rc, limit)
	if _, err := io.Copy(&buf, ler); err != nil {
		return nil, ler.ReadBytes(), err
	}
	return buf.Bytes(), ler.ReadBytes(), nil
}
