// Package version holds the build identity of the rbtree binary.
package version

import (
	"runtime/debug"
	"sync"
)

const unknown = "<unknown>"

// Set with -ldflags "-X github.com/Sumatoshi-tech/redblack/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

var initOnce sync.Once

// InitBinaryVersion fills the values that were not set at link time from the
// module build information embedded by the go tool.
func InitBinaryVersion() {
	initOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		apply(info)
	})
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String formats the identity the way the version command prints it.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
