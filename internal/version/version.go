package version

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X github.com/MrSnakeDoc/navmanifest/internal/version.Version=v0.1.0".
var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// String is the one-line build description printed by --version.
func String() string {
	return fmt.Sprintf("navmanifest %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
