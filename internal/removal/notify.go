// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mpplugins/core/internal/domain"
)

// Summarize builds the aggregated notification text for one backend's pass
// (spec.md §7): a header followed by one line per acted-on torrent.
func Summarize(backendName string, action domain.Action, acted []domain.TorrentView) string {
	if len(acted) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %d seeds", backendName, actionNoun[action], len(acted))
	for _, t := range acted {
		site := t.Site
		if site == "" {
			site = "unknown"
		}
		fmt.Fprintf(&b, "\n%s from %s size %s", t.Name, site, humanize.Bytes(uint64(t.Size)))
	}
	return b.String()
}
