package common

import (
	"fmt"
	"runtime"
	"strings"
)

// Set at build time with -ldflags "-X github.com/WangYihang/web-crawler/pkg/common.Version=..."
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

// PV describes the running binary
var PV = ProgramVersion{
	Version:    Version,
	CommitHash: CommitHash,
	BuildTime:  BuildTime,
	GoVersion:  runtime.Version(),
	Platform:   runtime.GOOS + "/" + runtime.GOARCH,
}

// ProgramVersion is the build information reported by --version and /health
type ProgramVersion struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Short returns "web-crawler/<version>"
func (v ProgramVersion) Short() string {
	return "web-crawler/" + strings.TrimPrefix(v.Version, "v")
}

// String returns the multi-line --version output
func (v ProgramVersion) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (commit %s, built %s)\n", v.Short(), v.CommitHash, v.BuildTime)
	fmt.Fprintf(&b, "%s %s\n", v.GoVersion, v.Platform)
	b.WriteString("bounded breadth-first crawler: fetches seed hosts through a proxy and follows their links up to a visit limit")
	return b.String()
}
