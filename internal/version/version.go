// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X github.com/inonjs/ignite/internal/version.Version=v0.3.0"
package version

import "fmt"

// Version is the release version.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by the version command.
func String() string {
	return fmt.Sprintf("ignite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
