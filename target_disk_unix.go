// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package easyarchive

import (
	"time"

	"golang.org/x/sys/unix"
)

// canRestorePermissions determines whether posix permission bits can be applied
// to materialized files on the current platform.
const canRestorePermissions = true

// chtimes modifies the access and modified timestamps on path with
// nanosecond precision.
func chtimes(path string, atime, mtime time.Time) error {
	return unix.UtimesNano(path, []unix.Timespec{
		unixTimespec(atime),
		unixTimespec(mtime),
	})
}

// unixTimespec converts a time.Time to a unix.Timespec.
func unixTimespec(t time.Time) unix.Timespec {
	return unix.NsecToTimespec(t.UnixNano())
}
