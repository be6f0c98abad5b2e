// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"fmt"
	"hash/fnv"
)

// TorrentView is the backend-normalized torrent record produced by a
// BackendAdapter (spec.md §3). It is immutable within one removal pass
// and discarded after action dispatch.
type TorrentView struct {
	ID   string
	IsQB bool

	Name     string
	Size     int64
	Progress float64

	Ratio         float64
	Uploaded      int64
	DateDone      int64 // unix seconds: completion time if known, else added time
	SeedingTimeS  int64 // now - DateDone, >= 0
	AvgUpspeed    float64

	SavePath string
	Trackers []string
	Site     string

	State        string // QB-only
	Category     string // QB-only
	ErrorString  string // TR-only
}

// Fingerprint returns a stable hash over every field that can influence
// removal, so two TorrentViews are behaviorally equal iff their
// fingerprints match (spec.md §3 "Equality and hashing").
func (t TorrentView) Fingerprint() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%t|%s|%d|%f|%f|%d|%d|%d|%f|%s|%v|%s|%s|%s|%s",
		t.ID, t.IsQB, t.Name, t.Size, t.Progress,
		t.Ratio, t.Uploaded, t.DateDone, t.SeedingTimeS, t.AvgUpspeed,
		t.SavePath, t.Trackers, t.Site, t.State, t.Category, t.ErrorString,
	)
	return h.Sum64()
}

// Equal reports whether two views agree on every field that can
// influence removal.
func (t TorrentView) Equal(o TorrentView) bool {
	return t.Fingerprint() == o.Fingerprint()
}

// ContentKey groups torrents for cross-seed ("samedata") expansion:
// torrents with identical advertised content share a key even though
// their infohashes differ (spec.md §4.1.2, glossary "samedata").
type ContentKey struct {
	Name string
	Size int64
}

func (t TorrentView) ContentKey() ContentKey {
	return ContentKey{Name: t.Name, Size: t.Size}
}
