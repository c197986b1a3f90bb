// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"fmt"
	"sort"
	"strings"
)

// Format identifies an archive container and its compression.
type Format int

const (
	Tar Format = iota + 1
	TarGz
	TarXz
	TarBz
	TarZstd
	Zip
	SevenZip
)

// formatInfo holds the name and the ordered extension list of a format.
type formatInfo struct {
	name       string
	extensions []string
}

// formats is the closed table of known formats. Extension lists are mutually
// exclusive across formats.
var formats = map[Format]formatInfo{
	Tar:      {name: "tar", extensions: []string{".tar"}},
	TarGz:    {name: "tar.gz", extensions: []string{".tar.gz", ".tgz"}},
	TarXz:    {name: "tar.xz", extensions: []string{".tar.xz", ".txz"}},
	TarBz:    {name: "tar.bz2", extensions: []string{".tar.bz2", ".tbz2", ".tbz"}},
	TarZstd:  {name: "tar.zst", extensions: []string{".tar.zst", ".tzst", ".tzstd"}},
	Zip:      {name: "zip", extensions: []string{".zip"}},
	SevenZip: {name: "7z", extensions: []string{".7z"}},
}

// suffixes lists every (extension, format) pair, longest extension first.
var suffixes = func() []suffix {
	var s []suffix
	for _, f := range Formats() {
		for _, ext := range formats[f].extensions {
			s = append(s, suffix{ext: ext, format: f})
		}
	}
	sort.SliceStable(s, func(i, j int) bool {
		return len(s[i].ext) > len(s[j].ext)
	})
	return s
}()

type suffix struct {
	ext    string
	format Format
}

// Formats returns all known formats in declaration order.
func Formats() []Format {
	return []Format{Tar, TarGz, TarXz, TarBz, TarZstd, Zip, SevenZip}
}

// Guess returns the format of the archive name based on its suffix. The
// longest matching suffix wins, so "a.tar.gz" is [TarGz] and not [Tar].
// Matching is case-insensitive.
func Guess(name string) (Format, bool) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.ext) {
			return s.format, true
		}
	}
	return 0, false
}

// ParseFormat resolves a format name ("tar.gz") or extension (".tgz").
func ParseFormat(s string) (Format, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Formats() {
		if formats[f].name == lower {
			return f, nil
		}
	}
	if !strings.HasPrefix(lower, ".") {
		lower = "." + lower
	}
	for _, sf := range suffixes {
		if sf.ext == lower {
			return sf.format, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, s)
}

// Extensions returns the canonical extensions of f, including the leading dot.
func (f Format) Extensions() []string {
	info, ok := formats[f]
	if !ok {
		return nil
	}
	return append([]string(nil), info.extensions...)
}

// IsTar returns true for the plain and all compressed tar formats.
func (f Format) IsTar() bool {
	switch f {
	case Tar, TarGz, TarXz, TarBz, TarZstd:
		return true
	}
	return false
}

// String returns the short name of the format.
func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}
