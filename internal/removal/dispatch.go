// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/domain"
)

// actionNoun is the log noun for each configured action (spec.md §4.1.3).
var actionNoun = map[domain.Action]string{
	domain.ActionPause:      "暂停",
	domain.ActionDelete:     "删除种子",
	domain.ActionDeleteFile: "删除种子及文件",
}

// Dispatch issues the configured action to the backend, one torrent at a
// time, polling cancel before each call (spec.md §4.1.3, §5). It returns
// the views it actually acted on, in order, stopping early if cancel fires.
func Dispatch(ctx context.Context, adapter backend.Adapter, action domain.Action, views []domain.TorrentView, cancel *atomic.Bool) []domain.TorrentView {
	var acted []domain.TorrentView
	for _, v := range views {
		if cancel != nil && cancel.Load() {
			log.Info().Str("backend", adapter.Name()).Msg("removal: cancellation requested, dispatch halted")
			break
		}

		var err error
		switch action {
		case domain.ActionPause:
			err = adapter.StopTorrents(ctx, []string{v.ID})
		case domain.ActionDelete:
			err = adapter.DeleteTorrents(ctx, []string{v.ID}, false)
		case domain.ActionDeleteFile:
			err = adapter.DeleteTorrents(ctx, []string{v.ID}, true)
		}

		if err != nil {
			log.Error().Err(err).Str("backend", adapter.Name()).Str("torrent", v.Name).Str("action", string(action)).
				Msg("removal: action failed")
			continue
		}
		log.Info().Str("backend", adapter.Name()).Str("noun", actionNoun[action]).Str("torrent", v.Name).Msg("removal: action dispatched")
		acted = append(acted, v)
	}
	return acted
}
