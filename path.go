// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package easyarchive

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

// envMsys is the environment variable that is set inside MSYS style shells.
const envMsys = "MSYSTEM"

// drivePrefix matches a windows drive prefix like "C:/".
var drivePrefix = regexp.MustCompile(`^([A-Za-z]):/`)

// IsMsys reports if the process runs inside an MSYS style shell. getenv is
// usually [os.Getenv].
func IsMsys(getenv func(string) string) bool {
	if getenv == nil {
		return false
	}
	return len(getenv(envMsys)) > 0
}

// ToPosixPath rewrites p into the form that shell tools of an MSYS
// environment expect: backslashes become forward slashes and a drive prefix
// "X:/" becomes "/x/". If msys is false, p is returned unchanged.
func ToPosixPath(p string, msys bool) string {
	if !msys {
		return p
	}
	p = strings.ReplaceAll(p, `\`, "/")
	return drivePrefix.ReplaceAllStringFunc(p, func(m string) string {
		return "/" + strings.ToLower(m[:1]) + "/"
	})
}

// isRootPath reports whether the archive member name denotes the archive root
// itself, like "./" or ".".
func isRootPath(name string) bool {
	p := strings.TrimLeft(strings.ReplaceAll(name, `\`, "/"), "/")
	return len(p) > 0 && path.Clean(p) == "."
}

// normalizePath converts an archive member name into the entry path format:
// forward slashes, no leading slash, no trailing slash and no "." or ".."
// elements.
func normalizePath(name string) (string, error) {
	p := strings.ReplaceAll(name, `\`, "/")
	p = strings.TrimLeft(p, "/")
	p = path.Clean(p)
	if p == "." || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return p, nil
}
