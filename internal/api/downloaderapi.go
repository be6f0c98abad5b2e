// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/events"
)

const (
	pollInterval = 500 * time.Millisecond
	pollTimeout  = 10 * time.Second
)

// DownloaderAPIHandler implements the downloader-API plugin's HTTP
// surface (spec.md §6 "HTTP API surface").
type DownloaderAPIHandler struct {
	backends map[string]backend.Adapter
	bus      *events.Bus
}

// NewDownloaderAPIHandler builds a handler dispatching to one configured
// backend; the plugin surface names exactly one downloader per instance
// (spec.md §6). With several backends configured, which one is used is
// not defined: firstBackend takes whichever map iteration yields first.
func NewDownloaderAPIHandler(backends map[string]backend.Adapter, bus *events.Bus) *DownloaderAPIHandler {
	return &DownloaderAPIHandler{backends: backends, bus: bus}
}

type addTorrentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body addTorrentResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// AddTorrent implements GET /download_torrent_notest?torrent_url=<url>
// (spec.md §6): adds torrentURL tagged with a fresh random tag, polls
// for the assigned hash by tag lookup, and publishes PluginAction on
// success.
func (h *DownloaderAPIHandler) AddTorrent(w http.ResponseWriter, r *http.Request) {
	torrentURL := r.URL.Query().Get("torrent_url")
	if torrentURL == "" {
		writeJSON(w, http.StatusBadRequest, addTorrentResponse{Message: "missing torrent_url"})
		return
	}

	adapter := h.firstBackend()
	if adapter == nil {
		writeJSON(w, http.StatusServiceUnavailable, addTorrentResponse{Message: "no downloader configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pollTimeout)
	defer cancel()

	if meta, ok := fetchTorrentMeta(ctx, torrentURL); ok {
		log.Info().Str("name", meta.Name).Int64("size", meta.Size).Str("info_hash", meta.InfoHash).
			Msg("downloaderapi: resolved torrent metainfo before hash is known")
	}

	tag := randomTag()
	if err := adapter.AddTorrent(ctx, torrentURL, tag); err != nil {
		log.Error().Err(err).Str("backend", adapter.Name()).Msg("downloaderapi: add torrent failed")
		writeJSON(w, http.StatusBadGateway, addTorrentResponse{Message: err.Error()})
		return
	}

	hash, err := pollForHash(ctx, adapter, tag)
	if err != nil {
		writeJSON(w, http.StatusGatewayTimeout, addTorrentResponse{Message: "added but hash lookup timed out"})
		return
	}

	if h.bus != nil {
		h.bus.PublishPluginAction(events.PluginAction{Action: events.ActionDownloaderAPIAdd, Hash: hash})
	}

	writeJSON(w, http.StatusOK, addTorrentResponse{Success: true, Message: hash})
}

// fetchTorrentMeta fetches and decodes torrentURL's .torrent file so the
// add can be logged by name and size before the backend assigns a hash
// (spec.md §6). Magnet links carry no fetchable metainfo blob, so this
// is skipped for them; any fetch or decode failure is non-fatal, since
// the label is diagnostic only.
func fetchTorrentMeta(ctx context.Context, torrentURL string) (backend.TorrentMeta, bool) {
	if strings.HasPrefix(torrentURL, "magnet:") {
		return backend.TorrentMeta{}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, torrentURL, nil)
	if err != nil {
		return backend.TorrentMeta{}, false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return backend.TorrentMeta{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return backend.TorrentMeta{}, false
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return backend.TorrentMeta{}, false
	}

	meta, err := backend.ParseTorrentMetaInfo(b)
	if err != nil {
		return backend.TorrentMeta{}, false
	}
	return meta, true
}

func (h *DownloaderAPIHandler) firstBackend() backend.Adapter {
	for _, a := range h.backends {
		return a
	}
	return nil
}

// randomTag generates a 10-character random tag (spec.md §6).
func randomTag() string {
	return uuid.NewString()[:10]
}

// pollForHash waits for adapter.GetTorrents to report a torrent tagged
// with tag, polling at pollInterval until ctx is done (spec.md §6 "waits
// long enough to read back the assigned hash by tag lookup").
func pollForHash(ctx context.Context, adapter backend.Adapter, tag string) (string, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		views, err := adapter.GetTorrents(ctx, []string{tag})
		if err == nil && len(views) > 0 {
			return views[0].ID, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
