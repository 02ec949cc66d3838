package version

import "fmt"

var (
	// Version is the semantic version of the updater build, injected via
	// ldflags on release builds; the dev default marks local builds.
	Version = "0.0.0-dev"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version line with commit and build time.
func Full() string {
	return fmt.Sprintf("mq-update %s (commit %s, built %s)", Version, Commit, BuildTime)
}
