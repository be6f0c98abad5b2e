// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package buildinfo exposes the version/commit/date the linker stamps
// in via -ldflags at release build time, for the version command, plus
// a composed User-Agent string.
package buildinfo

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Version, Commit and Date are overridden via -ldflags "-X" at build
// time; the zero values below are what a local "go run" reports.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// UserAgent is composed from Version and the platform at init. No HTTP
// client in this module sets it on its requests.
var UserAgent string

func init() {
	UserAgent = fmt.Sprintf("mpplugind/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}

// String renders a three-line human-readable summary.
func String() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild date: %s", Version, Commit, Date)
}

// JSON renders the same fields as a JSON object, for a /version-style
// endpoint.
func JSON() ([]byte, error) {
	return json.Marshal(struct {
		Version string `json:"version"`
		Commit  string `json:"commit"`
		Date    string `json:"date"`
	}{Version: Version, Commit: Commit, Date: Date})
}
