// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// fileExtensionZip is the walker type for zip files.
const fileExtensionZip = "zip"

// host systems in the upper byte of the zip creator version that carry unix permissions
const (
	creatorUnix   = 3
	creatorMacOSX = 19
)

// decodeZip reads all entries of the zip archive in data. The content of all
// files may not exceed limit bytes.
func decodeZip(data []byte, limit int64) (*Entries, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("cannot create zip reader: %w", err)
	}

	// zstd compressed members
	reader.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	reader.RegisterDecompressor(zstd.ZipMethodPKWare, zstd.ZipDecompressor())

	return collect(&zipWalker{zr: reader}, limit)
}

// encodeZip writes entries as a deflate compressed zip archive to dst.
func encodeZip(dst io.Writer, entries *Entries) error {
	zw := zip.NewWriter(dst)
	for _, e := range entries.All() {
		fh := &zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: e.ModTime,
		}
		if e.IsDir {
			fh.Name += "/"
			fh.Method = zip.Store
			fh.SetMode(fs.ModeDir | entryMode(e, defaultCreateDirMode))
		} else {
			fh.SetMode(entryMode(e, defaultCreateFileMode))
		}

		w, err := zw.CreateHeader(fh)
		if err != nil {
			return fmt.Errorf("cannot create zip entry %q: %w", e.Path, err)
		}
		if !e.IsDir {
			if _, err := w.Write(e.Content); err != nil {
				return fmt.Errorf("cannot write zip entry %q: %w", e.Path, err)
			}
		}
	}
	return zw.Close()
}

// zipWalker is a walker for zip files
type zipWalker struct {
	zr *zip.Reader
	fp int
}

// Type returns the file extension for zip files
func (z *zipWalker) Type() string {
	return fileExtensionZip
}

// Next returns the next entry in the zip archive
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.zr.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &zipEntry{z.zr.File[z.fp]}, nil
}

// zipEntry is an entry in a zip archive
type zipEntry struct {
	zf *zip.File
}

// Name returns the name of the entry
func (z *zipEntry) Name() string {
	return z.zf.Name
}

// Size returns the size of the entry
func (z *zipEntry) Size() int64 {
	return int64(z.zf.UncompressedSize64)
}

// Mode returns the permission bits of the entry. Only archives created on
// unix like systems carry them.
func (z *zipEntry) Mode() (fs.FileMode, bool) {
	switch z.zf.CreatorVersion >> 8 {
	case creatorUnix, creatorMacOSX:
		return z.zf.Mode().Perm(), true
	}
	return 0, false
}

// ModTime returns the modification time of the entry. An empty MS-DOS
// timestamp counts as unknown.
func (z *zipEntry) ModTime() time.Time {
	if z.zf.ModifiedDate == 0 && z.zf.ModifiedTime == 0 {
		return time.Time{}
	}
	return z.zf.Modified
}

// IsRegular returns true if the entry is a regular file
func (z *zipEntry) IsRegular() bool {
	return !z.IsDir() && z.zf.Mode().Type() == 0
}

// IsDir returns true if the entry is a directory
func (z *zipEntry) IsDir() bool {
	return strings.HasSuffix(z.zf.Name, "/") || z.zf.Mode().IsDir()
}

// Open returns a reader for the entry
func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.zf.Open()
}
