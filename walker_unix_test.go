// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package easyarchive_test

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

// umask returns the current process umask.
func umask(t *testing.T) os.FileMode {
	t.Helper()
	m := unix.Umask(0)
	unix.Umask(m)
	return os.FileMode(m)
}
