// Package version provides version information for udf-suite.
//
// The version is read from version.txt, which the release process keeps in
// sync with the VERSION file at the repository root.
package version

import (
	_ "embed"
	"strings"
)

//go:embed version.txt
var versionFile string

// Version is the current version of udf-suite.
var Version = strings.TrimSpace(versionFile)

// String returns the version string.
func String() string {
	return Version
}

// Full returns a full version string with the package name.
func Full() string {
	return "udf-suite version " + Version
}
