// Package buildinfo holds the version metadata stamped into lazystatus at
// link time. cmd/lazystatus forwards its ldflags variables through Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const (
	unsetVersion = "dev"
	unsetCommit  = "none"
	unsetValue   = "unknown"
)

var (
	version = unsetVersion
	commit  = unsetCommit
	date    = unsetValue
	builtBy = unsetValue
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Info is the resolved build metadata.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	BuiltBy   string `json:"built_by"`
	GoVersion string `json:"go_version,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// Set stores linker-injected values. Empty arguments leave the current value.
func Set(v, c, d, b string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
	if b != "" {
		builtBy = b
	}
}

// Get returns the build metadata, filling whatever the linker left unset
// from the module and VCS information embedded by the Go toolchain.
func Get() Info {
	info := Info{Version: version, Commit: commit, Date: date, BuiltBy: builtBy}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion

	if info.Version == unsetVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == unsetCommit {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.Date == unsetValue {
				info.Date = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	if info.BuiltBy == unsetValue {
		info.BuiltBy = bi.GoVersion
	}
	return info
}

// String formats the metadata the way --version prints it.
func (i Info) String() string {
	c := i.Commit
	if i.Modified {
		c += " (dirty)"
	}
	return fmt.Sprintf("lazystatus version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s\n", i.Version, c, i.Date, i.BuiltBy)
}
