// Package version carries the build identity, injected at release time with
// ldflags and falling back to module build info for go-installed binaries.
package version

import runtimeDebug "runtime/debug"

var (
	Version string
	Commit  string
)

func init() {
	if Version == "" {
		buildInfo, _ := runtimeDebug.ReadBuildInfo()
		Version = buildInfo.Main.Version
	}
}
