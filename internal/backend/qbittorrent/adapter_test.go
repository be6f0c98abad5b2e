// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbittorrent

import (
	"testing"
	"time"

	qbt "github.com/autobrr/go-qbittorrent"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTorrentDropsPseudoTrackersAndDerivesSite(t *testing.T) {
	now := time.Unix(200000, 0)
	raw := qbt.Torrent{
		Hash:         "abc123",
		Name:         "some.linux.iso",
		Size:         1000,
		Progress:     1,
		Ratio:        2.5,
		Uploaded:     5000,
		CompletionOn: 100000,
		SavePath:     "/downloads/some.linux.iso",
		State:        qbt.TorrentStateStalledUp,
		Category:     "linux",
		Trackers: []qbt.TorrentTracker{
			{Url: "** [DHT] **"},
			{Url: "https://tracker.example.com/announce"},
		},
	}

	view := normalizeTorrent(raw, now)

	assert.Equal(t, "abc123", view.ID)
	assert.True(t, view.IsQB)
	assert.Equal(t, []string{"https://tracker.example.com/announce"}, view.Trackers)
	assert.Equal(t, "example.com", view.Site)
	assert.Equal(t, int64(100000), view.SeedingTimeS)
	assert.Equal(t, 0.05, view.AvgUpspeed)
	assert.Equal(t, "linux", view.Category)
	assert.Equal(t, string(qbt.TorrentStateStalledUp), view.State)
}

func TestNormalizeTorrentFallsBackToAddedOnWhenIncomplete(t *testing.T) {
	now := time.Unix(100000, 0)
	raw := qbt.Torrent{
		Hash:         "def456",
		AddedOn:      90000,
		CompletionOn: -1,
	}

	view := normalizeTorrent(raw, now)
	assert.Equal(t, int64(90000), view.DateDone)
	assert.Equal(t, int64(10000), view.SeedingTimeS)
}
