// Package version reports build metadata stamped in by the linker
package version

// BuildInfo is the build metadata of the running binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build metadata
//
//	go build -ldflags "-X codeeditor/internal/core/version.version=v0.1.0 \
//	  -X codeeditor/internal/core/version.commit=$(git rev-parse --short HEAD)"
func Info() BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	service = "codeeditor-api"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
