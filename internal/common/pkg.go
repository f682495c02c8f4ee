package common

import (
	"path"
	"strings"
)

// UnknownStr is the String() value of enum members without a name.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// IsStdlibPath reports whether pkgPath looks like a standard library import path.
// Standard library paths have no dot in their first element ("fmt", "net/http").
func IsStdlibPath(pkgPath string) bool {
	if pkgPath == "" {
		return false
	}

	first, _, _ := strings.Cut(pkgPath, "/")

	return !strings.Contains(first, ".") && !strings.Contains(pkgPath, "-")
}
