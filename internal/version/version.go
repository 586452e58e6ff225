// Package version holds build metadata stamped in via -ldflags.
package version

var (
	// Version is the release tag of this build.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the timestamp of the build.
	BuildTime = "unknown"
)
