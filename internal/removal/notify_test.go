// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpplugins/core/internal/domain"
)

func TestSummarizeFormatsHeaderAndLines(t *testing.T) {
	acted := []domain.TorrentView{
		{Name: "Show.S01", Site: "example.com", Size: 1 << 30},
	}
	msg := Summarize("qbt1", domain.ActionDelete, acted)
	assert.Equal(t, "qbt1 删除种子 1 seeds\nShow.S01 from example.com size 1.1 GB", msg)
}

func TestSummarizeEmptyWhenNothingActed(t *testing.T) {
	assert.Equal(t, "", Summarize("qbt1", domain.ActionPause, nil))
}

func TestSummarizeFallsBackToUnknownSite(t *testing.T) {
	acted := []domain.TorrentView{{Name: "x", Size: 100}}
	msg := Summarize("qbt1", domain.ActionPause, acted)
	assert.Contains(t, msg, "x from unknown size")
}
