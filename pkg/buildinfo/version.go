// Package buildinfo exposes the version stamped into the binary at build
// time. Release builds overwrite the variables via ldflags:
//
//	go build -ldflags "\
//	    -X github.com/matzehuels/lockrank/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/lockrank/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/lockrank/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds (go run, plain go build) fall back to the VCS revision
// recorded by the toolchain, when available.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic release version, "dev" when unstamped.
	Version = "dev"

	// Commit is the git revision the binary was built from.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

func init() {
	if Commit != "none" {
		return
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			Commit = s.Value
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// String returns the build information as a multi-line summary.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template carrying the full build info.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
