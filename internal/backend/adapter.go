// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package backend defines the uniform interface the removal engine
// consumes (spec.md §4.3) and the normalization helpers shared by every
// concrete adapter (QB-style, TR-style).
package backend

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/mpplugins/core/internal/domain"
)

// File describes a single file inside a torrent (spec.md §4.3
// get_files).
type File struct {
	ID       int
	Name     string
	Priority int
	Progress float64
}

// Adapter is the uniform interface consumed by the removal engine.
// Both QB-style and TR-style backends live behind it (spec.md §4.3,
// design note "Backend polymorphism").
type Adapter interface {
	// Name identifies this backend instance for logging and notifications.
	Name() string

	// GetTorrents lists torrents, already normalized to TorrentView,
	// optionally filtered to the given tags/labels.
	GetTorrents(ctx context.Context, tags []string) ([]domain.TorrentView, error)

	// AddTorrent adds torrentURL tagged with tag, so the caller can read
	// back the assigned hash via GetTorrents(ctx, []string{tag}) (spec.md
	// §6 "downloader-API plugin").
	AddTorrent(ctx context.Context, torrentURL, tag string) error

	GetFiles(ctx context.Context, id string) ([]File, error)
	SetFiles(ctx context.Context, id string, fileIDs []int, priority int) error

	StopTorrents(ctx context.Context, ids []string) error
	StartTorrents(ctx context.Context, ids []string) error
	ForceStart(ctx context.Context, ids []string) (bool, error)
	DeleteTorrents(ctx context.Context, ids []string, deleteFiles bool) error

	// IsInactive reports whether the backend connection is currently
	// unusable (spec.md §4.3 is_inactive), letting the removal engine
	// implement the BackendUnavailable error kind (spec.md §7) without
	// depending on error string matching.
	IsInactive() bool
}

// pseudoTrackers lists the placeholder tracker entries QB reports
// alongside real trackers; none of them is a real tracker (spec.md §3,
// glossary "Pseudo-tracker").
var pseudoTrackers = map[string]bool{
	"** [LSD] **": true,
	"** [PeX] **": true,
	"** [DHT] **": true,
}

// SanitizeTrackers drops pseudo-tracker placeholder entries, preserving
// order (spec.md §3, §4.3).
func SanitizeTrackers(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if pseudoTrackers[u] {
			continue
		}
		out = append(out, u)
	}
	return out
}

// SiteFromTracker derives the second-level domain of a tracker URL
// (spec.md §3 "site" for QB; TR supplies its own sitename instead).
// Returns "" when trackers is empty or the URL can't be parsed.
func SiteFromTracker(trackers []string) string {
	if len(trackers) == 0 {
		return ""
	}
	u, err := url.Parse(trackers[0])
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// SeedingTimeSeconds computes seeding_time_s = now - date_done, floored
// at 0 (spec.md §3, §8 property 2).
func SeedingTimeSeconds(dateDone int64, now time.Time) int64 {
	s := now.Unix() - dateDone
	if s < 0 {
		return 0
	}
	return s
}

// AvgUpspeed computes uploaded / seeding_time_s, or 0 when the
// denominator is 0 (spec.md §3, §8 property 2).
func AvgUpspeed(uploaded, seedingTimeS int64) float64 {
	if seedingTimeS == 0 {
		return 0
	}
	return float64(uploaded) / float64(seedingTimeS)
}
