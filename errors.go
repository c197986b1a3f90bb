// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import "errors"

var (
	// ErrUnrecognizedFormat is returned when a filename does not end with any
	// known archive extension. There is no fallback for this error.
	ErrUnrecognizedFormat = errors.New("unrecognized archive format")

	// ErrUnsupportedFormat is returned when the native codec cannot decode or
	// encode the requested format.
	ErrUnsupportedFormat = errors.New("format not supported by native codec")

	// ErrInputTooLarge is returned when the archive exceeds the configured
	// maximum size for native decoding.
	ErrInputTooLarge = errors.New("input exceeds maximum native size")

	// ErrShellExtraction is returned when the external extraction tool is
	// missing or exits with a non-zero status.
	ErrShellExtraction = errors.New("shell extraction failed")

	// ErrNoShellRule is returned when no shell rule matches the archive name.
	ErrNoShellRule = errors.New("no shell rule for archive")

	// ErrInvalidPath is returned for entry paths that are empty, absolute or
	// contain path traversal.
	ErrInvalidPath = errors.New("invalid entry path")

	// ErrSymlinkInPath is returned when materialization would write through a
	// symlink below the destination directory.
	ErrSymlinkInPath = errors.New("symlink in path")
)
