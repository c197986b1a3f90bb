// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package easyarchive_test

import (
	"os"
	"testing"
)

// umask returns zero on platforms without a umask.
func umask(t *testing.T) os.FileMode {
	t.Helper()
	return 0
}
