// Package version holds build metadata injected at link time.
package version

import "runtime"

// Build information. Populated via ldflags:
//
//	-X github.com/docslice/carve/version.GitRelease=v0.3.0
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = runtime.Version()
)
