// Package version holds the symdex version string.
package version

// Version is the current symdex version, overridable at build time via
// -ldflags "-X symdex/internal/version.Version=v1.2.3".
var Version = "0.3.0"
