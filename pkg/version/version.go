// Package version reports the astkit build.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the release of the astkit binary, set with -ldflags at build time.
var Version = "dev"

// Commit is the Git hash the binary was built from.
var Commit = "<unknown>"

// Info describes the running build.
type Info struct {
	Version   string
	Commit    string
	GoVersion string
}

// Get returns the build information, falling back to module metadata when
// the binary was built without ldflags.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && info.Commit == "<unknown>" {
			info.Commit = s.Value
		}
	}

	return info
}

// String renders the build information on one line.
func (i Info) String() string {
	return fmt.Sprintf("astkit %s (commit %s, %s)", i.Version, i.Commit, i.GoVersion)
}
