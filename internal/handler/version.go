package handler

import (
	"net/http"
	"os"
	"runtime"
)

// Build-time variables (injected via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unset"
)

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// HandleVersion reports which build is deployed.
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionInfo{
			Version:   effectiveVersion(),
			GoVersion: runtime.Version(),
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		})
	}
}

// effectiveVersion prefers the ldflags value, then the VERSION env var.
func effectiveVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
