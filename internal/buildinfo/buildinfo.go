// Package buildinfo holds the build metadata baked into the
// branchsweep binary at link time.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version string
	Commit  string
	BuiltBy string
}

var current = Info{Version: "dev", Commit: "none", BuiltBy: "unknown"}

// Set stores the metadata received from linker-injected variables in
// cmd/branchsweep/main.go.
func Set(version, commit, builtBy string) {
	current = Info{Version: version, Commit: commit, BuiltBy: builtBy}
}

// Get returns the current build metadata.
func Get() Info { return current }

// Version returns the build version string.
func Version() string { return current.Version }

// Commit returns the build commit hash.
func Commit() string { return current.Commit }

// BuiltBy returns the build agent string.
func BuiltBy() string { return current.BuiltBy }

// Enrich fills placeholder metadata from runtime/debug.ReadBuildInfo,
// so `go install` builds still report the VCS revision and Go
// version.
func Enrich() {
	if current.Commit != "none" && current.BuiltBy != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if current.Commit == "none" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				current.Commit = setting.Value
			}
		}
	}
	if current.BuiltBy == "unknown" {
		current.BuiltBy = info.GoVersion
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built by %s)", i.Version, i.Commit, i.BuiltBy)
}
