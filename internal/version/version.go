// Package version reports the cansig build version.
package version

// Version is set at build time with -ldflags.
var Version = "development"

// Commit is the git commit hash, set at build time.
var Commit = "unknown"

// String returns the version, suffixed with the commit when known.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}
