package version

import "strconv"

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)

// Info is the build metadata reported by the version endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date,omitempty"`
	Dirty   bool   `json:"dirty"`
}

func Get() Info {
	dirty, _ := strconv.ParseBool(Dirty)
	return Info{Version: Version, Commit: Commit, Date: Date, Dirty: dirty}
}
