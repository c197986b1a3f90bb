// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/bodgit/sevenzip"
)

// fileExtension7zip is the walker type for 7zip files
const fileExtension7zip = "7z"

// attributeUnixExtension marks 7zip attributes that carry unix permissions in the upper 16 bits
const attributeUnixExtension = 0x8000

// decode7zip reads all entries of the 7zip archive in data. The content of all
// files may not exceed limit bytes.
func decode7zip(data []byte, limit int64) (*Entries, error) {
	reader, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("cannot create 7zip reader: %w", err)
	}
	return collect(&sevenZipWalker{reader, 0}, limit)
}

// sevenZipWalker is a walker for 7zip files
type sevenZipWalker struct {
	r  *sevenzip.Reader
	fp int
}

// Type returns the file extension for 7zip files
func (z *sevenZipWalker) Type() string {
	return fileExtension7zip
}

// Next returns the next entry in the 7zip file
func (z *sevenZipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.r.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &sevenZipEntry{z.r.File[z.fp]}, nil
}

// sevenZipEntry is an entry in a 7zip file
type sevenZipEntry struct {
	f *sevenzip.File
}

// Name returns the name of the 7zip entry
func (z *sevenZipEntry) Name() string {
	return z.f.Name
}

// Size returns the size of the 7zip entry
func (z *sevenZipEntry) Size() int64 {
	return z.f.FileInfo().Size()
}

// Mode returns the permission bits of the 7zip entry, if the archive was created on unix
func (z *sevenZipEntry) Mode() (fs.FileMode, bool) {
	if z.f.Attributes&attributeUnixExtension == 0 {
		return 0, false
	}
	return fs.FileMode(z.f.Attributes >> 16).Perm(), true
}

// ModTime returns the modification time of the 7zip entry
func (z *sevenZipEntry) ModTime() time.Time {
	return z.f.Modified
}

// IsRegular returns true if the 7zip entry is a regular file
// Remark: 7zip does not support symlinks
func (z *sevenZipEntry) IsRegular() bool {
	return z.f.FileInfo().Mode().IsRegular()
}

// IsDir returns true if the 7zip entry is a directory
func (z *sevenZipEntry) IsDir() bool {
	return z.f.FileInfo().IsDir()
}

// Open returns a reader for the 7zip entry
func (z *sevenZipEntry) Open() (io.ReadCloser, error) {
	return z.f.Open()
}
