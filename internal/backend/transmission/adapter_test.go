// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package transmission

import (
	"testing"
	"time"

	"github.com/hekmon/transmissionrpc/v3"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeTorrentUsesTrackerStatsSitename(t *testing.T) {
	now := time.Unix(200000, 0)
	done := time.Unix(100000, 0)
	tr := transmissionrpc.Torrent{
		HashString:   ptr("abc123"),
		Name:         ptr("some.linux.iso"),
		TotalSize:    ptr(int64(1000)),
		PercentDone:  ptr(1.0),
		UploadRatio:  ptr(2.5),
		UploadedEver: ptr(int64(5000)),
		DoneDate:     &done,
		DownloadDir:  ptr("/downloads"),
		ErrorString:  ptr(""),
		TrackerStats: []transmissionrpc.TrackerStats{
			{Announce: "https://tracker.example.com/announce", SitenameTracker: "example.com"},
		},
	}

	view := normalizeTorrent(tr, now)

	assert.Equal(t, "abc123", view.ID)
	assert.False(t, view.IsQB)
	assert.Equal(t, "example.com", view.Site)
	assert.Equal(t, int64(100000), view.SeedingTimeS)
	assert.Equal(t, 0.05, view.AvgUpspeed)
	assert.Equal(t, []string{"https://tracker.example.com/announce"}, view.Trackers)
}

func TestNormalizeTorrentFallsBackToSiteFromTrackerURL(t *testing.T) {
	now := time.Unix(100000, 0)
	added := time.Unix(90000, 0)
	tr := transmissionrpc.Torrent{
		HashString: ptr("def456"),
		AddedDate:  &added,
		TrackerStats: []transmissionrpc.TrackerStats{
			{Announce: "udp://t.example.org:1337/announce"},
		},
	}

	view := normalizeTorrent(tr, now)
	assert.Equal(t, int64(90000), view.DateDone)
	assert.Equal(t, int64(10000), view.SeedingTimeS)
	assert.Equal(t, "example.org", view.Site)
}
