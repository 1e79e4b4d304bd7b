// Package buildinfo carries version metadata injected at link time:
//
//	go build -ldflags "-X github.com/brainwave-dev/atm/internal/buildinfo.Version=v1.0.0"
package buildinfo

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the source revision.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
