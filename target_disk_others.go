// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package easyarchive

import (
	"os"
	"time"
)

// canRestorePermissions determines whether posix permission bits can be applied
// to materialized files on the current platform. Windows only knows a read-only
// flag, so modes are skipped silently.
const canRestorePermissions = false

// chtimes modifies the access and modified timestamps on path.
func chtimes(path string, atime, mtime time.Time) error {
	return os.Chtimes(path, atime, mtime)
}
