// Package version holds build metadata stamped at link time, e.g.
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0"
package version

//nolint:revive // Overwritten via ldflags.
var (
	// Version is the release tag of this build.
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
