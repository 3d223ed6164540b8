// Package version holds build information injected at link time.
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
