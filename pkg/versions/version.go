// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package versions holds the build-time version metadata for Tank,
// populated via -ldflags at build time and surfaced by `tank version` and
// the registry client's User-Agent header.
package versions

import (
	"fmt"
	"runtime"
	"time"
)

const unknownStr = "unknown"

// Version information set by build using -ldflags.
var (
	// Version is the current version of Tank.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = unknownStr
	// BuildDate is the date when the binary was built.
	BuildDate = unknownStr
)

// VersionInfo is the resolved, display-ready version information returned
// by GetVersionInfo.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo resolves the package-level Version/Commit/BuildDate
// variables into a VersionInfo. When Version is still "dev" (no -ldflags
// override at build time), the reported version becomes "build-<commit>"
// using the first 8 characters of Commit (or the full commit if shorter),
// so a locally built binary never claims to be a real release. BuildDate
// is reformatted from RFC3339 into a human-readable form when parseable;
// otherwise it is passed through unchanged.
func GetVersionInfo() VersionInfo {
	version := Version
	commit := Commit
	buildDate := BuildDate

	if version == "dev" {
		short := commit
		if len(short) > 8 {
			short = short[:8]
		}
		version = "build-" + short
	}

	if buildDate != unknownStr {
		if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
			buildDate = t.Format("2006-01-02 15:04:05 MST")
		}
	}

	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
