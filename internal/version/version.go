// Package version reports build information set with -ldflags, e.g.
//
//	go build -ldflags "-X pixel-retouch/internal/version.Version=1.2.0"
package version

import "fmt"

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build information for -version output and the
// About dialog.
func String() string {
	if GitCommit == "unknown" {
		return fmt.Sprintf("pixel-retouch %s", Version)
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("pixel-retouch %s (%s, built %s)", Version, commit, BuildTime)
}
