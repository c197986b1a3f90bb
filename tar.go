// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"time"
)

// fileExtensionTar is the walker type for tar files
const fileExtensionTar = "tar"

// decodeTar reads all entries of the uncompressed tar stream src. The content
// of all files may not exceed limit bytes.
func decodeTar(src io.Reader, limit int64) (*Entries, error) {
	return collect(&tarWalker{tr: tar.NewReader(src)}, limit)
}

// encodeTar writes entries as an uncompressed tar stream to dst.
func encodeTar(dst io.Writer, entries *Entries) error {
	tw := tar.NewWriter(dst)
	for _, e := range entries.All() {
		hdr := &tar.Header{
			Name:    e.Path,
			Mode:    int64(entryMode(e, defaultCreateFileMode)),
			ModTime: tarModTime(e.ModTime),
		}
		if e.IsDir {
			hdr.Typeflag = tar.TypeDir
			hdr.Name += "/"
			hdr.Mode = int64(entryMode(e, defaultCreateDirMode))
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = e.Size()
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("cannot write tar header %q: %w", e.Path, err)
		}
		if !e.IsDir {
			if _, err := tw.Write(e.Content); err != nil {
				return fmt.Errorf("cannot write tar entry %q: %w", e.Path, err)
			}
		}
	}
	return tw.Close()
}

// tarModTime maps an unknown modification time to the unix epoch.
func tarModTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0)
	}
	return t
}

// entryMode returns the permission bits of e or def if e has none.
func entryMode(e Entry, def fs.FileMode) fs.FileMode {
	if e.Mode == nil {
		return def
	}
	return e.Mode.Perm()
}

// tarWalker is a walker for tar files
type tarWalker struct {
	tr *tar.Reader
}

// Type returns the file extension for tar files
func (t *tarWalker) Type() string {
	return fileExtensionTar
}

// Next returns the next entry in the tar archive
func (t *tarWalker) Next() (archiveEntry, error) {
	hdr, err := t.tr.Next()
	if err != nil {
		return nil, err
	}
	return &tarEntry{hdr, t.tr}, nil
}

// tarEntry is an entry in a tar archive
type tarEntry struct {
	hdr *tar.Header
	tr  *tar.Reader
}

// Name returns the name of the entry
func (t *tarEntry) Name() string {
	return t.hdr.Name
}

// Size returns the size of the entry
func (t *tarEntry) Size() int64 {
	return t.hdr.Size
}

// Mode returns the permission bits of the entry
func (t *tarEntry) Mode() (fs.FileMode, bool) {
	return fs.FileMode(t.hdr.Mode).Perm(), true
}

// ModTime returns the modification time of the entry, the epoch counts as unknown
func (t *tarEntry) ModTime() time.Time {
	if t.hdr.ModTime.Unix() == 0 {
		return time.Time{}
	}
	return t.hdr.ModTime
}

// IsRegular returns true if the entry is a regular file
func (t *tarEntry) IsRegular() bool {
	return t.hdr.Typeflag == tar.TypeReg
}

// IsDir returns true if the entry is a directory
func (t *tarEntry) IsDir() bool {
	return t.hdr.Typeflag == tar.TypeDir
}

// Open returns a reader for the entry
func (t *tarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(t.tr), nil
}
