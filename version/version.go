package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/projecteru2/preload/version.Version=...".
var (
	Version   = "dev"
	Revision  = "unknown"
	BuildTime = "unknown"
)

// String returns a multi-line description of the build.
func String() string {
	return fmt.Sprintf("Version:    %s\nRevision:   %s\nBuilt:      %s\nGo version: %s\nOS/Arch:    %s/%s\n",
		Version, Revision, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
