// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package qbittorrent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	qbt "github.com/autobrr/go-qbittorrent"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/domain"
)

// Adapter implements backend.Adapter against a qBittorrent Web API
// instance (spec.md §4.3 "QB-style" backend).
type Adapter struct {
	client *Client
}

// New wraps an already-authenticated Client as a backend.Adapter.
func New(c *Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Name() string {
	return a.client.name
}

func (a *Adapter) IsInactive() bool {
	return !a.client.IsHealthy()
}

// GetTorrents lists torrents and normalizes each into a domain.TorrentView
// (spec.md §3). trackers are fetched alongside in one call so the
// site/tracker predicates never require a second round trip, unless ctx
// is marked with WithSkipTrackerHydration. The server filters by the
// first tag; any further tags are checked here, so only torrents
// carrying every given tag are returned.
func (a *Adapter) GetTorrents(ctx context.Context, tags []string) ([]domain.TorrentView, error) {
	opts := qbt.TorrentFilterOptions{IncludeTrackers: !shouldSkipTrackerHydration(ctx)}
	if len(tags) > 0 {
		opts.Tag = tags[0]
	}

	raw, err := a.client.GetTorrentsCtx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("qbittorrent %s: get torrents: %w", a.client.name, err)
	}

	now := time.Now()
	views := make([]domain.TorrentView, 0, len(raw))
	for _, t := range raw {
		have := make(map[string]bool)
		for _, tag := range strings.Split(t.Tags, ",") {
			have[strings.TrimSpace(tag)] = true
		}
		matched := true
		for _, want := range tags {
			matched = matched && have[want]
		}
		if !matched {
			continue
		}
		views = append(views, normalizeTorrent(t, now))
	}
	return views, nil
}

// normalizeTorrent converts one qbt.Torrent into a domain.TorrentView; kept
// separate from GetTorrents so the mapping can be unit tested without a
// live qBittorrent instance.
func normalizeTorrent(t qbt.Torrent, now time.Time) domain.TorrentView {
	trackers := make([]string, 0, len(t.Trackers))
	for _, tr := range t.Trackers {
		trackers = append(trackers, tr.Url)
	}
	trackers = backend.SanitizeTrackers(trackers)

	dateDone := t.CompletionOn
	if dateDone <= 0 {
		dateDone = t.AddedOn
	}
	seedingTimeS := backend.SeedingTimeSeconds(dateDone, now)

	return domain.TorrentView{
		ID:           t.Hash,
		IsQB:         true,
		Name:         t.Name,
		Size:         t.Size,
		Progress:     t.Progress,
		Ratio:        t.Ratio,
		Uploaded:     t.Uploaded,
		DateDone:     dateDone,
		SeedingTimeS: seedingTimeS,
		AvgUpspeed:   backend.AvgUpspeed(t.Uploaded, seedingTimeS),
		SavePath:     t.SavePath,
		Trackers:     trackers,
		Site:         backend.SiteFromTracker(trackers),
		State:        string(t.State),
		Category:     t.Category,
	}
}

// AddTorrent submits torrentURL tagged with tag (spec.md §6 downloader-API
// plugin).
func (a *Adapter) AddTorrent(ctx context.Context, torrentURL, tag string) error {
	opts := map[string]string{"tags": tag}
	if err := a.client.AddTorrentFromLinkCtx(ctx, torrentURL, opts); err != nil {
		return fmt.Errorf("qbittorrent %s: add torrent: %w", a.client.name, err)
	}
	return nil
}

func (a *Adapter) GetFiles(ctx context.Context, id string) ([]backend.File, error) {
	tf, err := a.client.GetFilesInformationCtx(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("qbittorrent %s: get files %s: %w", a.client.name, id, err)
	}
	files := make([]backend.File, 0, len(tf.Items))
	for i, f := range tf.Items {
		files = append(files, backend.File{
			ID:       i,
			Name:     f.Name,
			Priority: int(f.Priority),
			Progress: f.Progress,
		})
	}
	return files, nil
}

func (a *Adapter) SetFiles(ctx context.Context, id string, fileIDs []int, priority int) error {
	ids := make([]string, len(fileIDs))
	for i, fid := range fileIDs {
		ids[i] = strconv.Itoa(fid)
	}
	if err := a.client.SetFilePriorityCtx(ctx, id, strings.Join(ids, "|"), priority); err != nil {
		return fmt.Errorf("qbittorrent %s: set file priority %s: %w", a.client.name, id, err)
	}
	return nil
}

func (a *Adapter) StopTorrents(ctx context.Context, ids []string) error {
	if err := a.client.PauseCtx(ctx, ids); err != nil {
		return fmt.Errorf("qbittorrent %s: pause: %w", a.client.name, err)
	}
	return nil
}

func (a *Adapter) StartTorrents(ctx context.Context, ids []string) error {
	if err := a.client.ResumeCtx(ctx, ids); err != nil {
		return fmt.Errorf("qbittorrent %s: resume: %w", a.client.name, err)
	}
	return nil
}

// ForceStart toggles "force start" on every id; QB has no single "did it
// work" signal beyond the call erroring, so the bool return always mirrors
// err == nil (spec.md §4.3 force_start, kept for parity with TR's richer
// mutator response).
func (a *Adapter) ForceStart(ctx context.Context, ids []string) (bool, error) {
	for _, id := range ids {
		if err := a.client.SetForceStartCtx(ctx, id, true); err != nil {
			return false, fmt.Errorf("qbittorrent %s: force start %s: %w", a.client.name, id, err)
		}
	}
	return true, nil
}

func (a *Adapter) DeleteTorrents(ctx context.Context, ids []string, deleteFiles bool) error {
	if err := a.client.DeleteTorrentsCtx(ctx, ids, deleteFiles); err != nil {
		return fmt.Errorf("qbittorrent %s: delete: %w", a.client.name, err)
	}
	return nil
}

var _ backend.Adapter = (*Adapter)(nil)
