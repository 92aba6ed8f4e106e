package version

import (
	"fmt"
	"runtime"
	"time"
)

// These variables are set at build time via -ldflags
var (
	Version   = "dev"     // -X github.com/salwynchristopher/portfolio/internal/version.Version=v1.0.0
	BuildTime = "unknown" // -X .../internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)
	GitCommit = "unknown" // -X .../internal/version.GitCommit=$(git rev-parse HEAD)
)

// BuildInfo contains build information
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo returns complete build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns a formatted version string for CLI output
func Info() string {
	info := GetBuildInfo()
	if info.BuildTime == "unknown" {
		return fmt.Sprintf("%s (development build, %s)", info.Version, info.GoVersion)
	}

	buildTime, err := time.Parse(time.RFC3339, info.BuildTime)
	if err != nil {
		return fmt.Sprintf("%s (built %s)", info.Version, info.BuildTime)
	}

	return fmt.Sprintf("%s (built %s, commit %s)",
		info.Version,
		buildTime.Format("2006-01-02 15:04:05 UTC"),
		shortCommit(info.GitCommit))
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
