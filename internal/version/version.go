// Package version provides version information for pushbell.
package version

// Version is the pushbell version, overridden at build time with -ldflags.
var Version = "development"

// Commit is the git commit hash, overridden at build time with -ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" && Commit != "" {
		return Version + "+" + Commit
	}
	return Version
}
