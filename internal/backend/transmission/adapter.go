// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package transmission adapts a Transmission instance to backend.Adapter
// (spec.md §4.3 "TR-style" backend) via github.com/hekmon/transmissionrpc/v3.
package transmission

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/hekmon/transmissionrpc/v3"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/domain"
)

var torrentGetFields = []string{
	"id", "hashString", "name", "totalSize", "percentDone",
	"uploadRatio", "uploadedEver", "addedDate", "doneDate", "activityDate",
	"downloadDir", "trackerStats", "status", "errorString", "files", "fileStats", "labels",
}

// Client wraps a transmissionrpc.Client with a health flag, health-checked
// with a cheap session-get call the same way the QB adapter re-logs in on
// failure (spec.md §7 BackendUnavailable).
type Client struct {
	rpc       *transmissionrpc.Client
	name      string
	mu        sync.RWMutex
	isHealthy bool

	// hashToID caches the numeric torrent IDs transmissionrpc requires for
	// mutating calls, keyed by the hash string domain.TorrentView.ID uses.
	hashToID map[string]int64
}

// NewClient dials a Transmission RPC endpoint.
func NewClient(name, rawURL, username, password string) (*Client, error) {
	endpoint, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("transmission %q: parse endpoint: %w", name, err)
	}
	if username != "" {
		endpoint.User = url.UserPassword(username, password)
	}

	rpc, err := transmissionrpc.New(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("transmission %q: connect: %w", name, err)
	}

	return &Client{
		rpc:       rpc,
		name:      name,
		isHealthy: true,
		hashToID:  make(map[string]int64),
	}, nil
}

func (c *Client) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isHealthy
}

// HealthCheck confirms the RPC endpoint responds to a cheap session-get.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.rpc.SessionArguments(ctx)
	c.mu.Lock()
	c.isHealthy = err == nil
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("transmission %q: health check: %w", c.name, err)
	}
	return nil
}

// Adapter implements backend.Adapter against a Transmission instance.
type Adapter struct {
	client *Client
}

func New(c *Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Name() string {
	return a.client.name
}

func (a *Adapter) IsInactive() bool {
	return !a.client.IsHealthy()
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// GetTorrents lists torrents and normalizes each into a domain.TorrentView
// (spec.md §3); TR has no QB-style state/category but reports its own
// per-torrent sitename and errorString (spec.md §4.3 "TR-only" fields).
func (a *Adapter) GetTorrents(ctx context.Context, tags []string) ([]domain.TorrentView, error) {
	torrents, err := a.client.rpc.TorrentGetAll(ctx, torrentGetFields)
	if err != nil {
		return nil, fmt.Errorf("transmission %s: get torrents: %w", a.client.name, err)
	}

	now := time.Now()
	views := make([]domain.TorrentView, 0, len(torrents))

	a.client.mu.Lock()
	for _, t := range torrents {
		hash := deref(t.HashString)
		if id := deref(t.ID); id != 0 {
			a.client.hashToID[hash] = id
		}
	}
	a.client.mu.Unlock()

	for _, t := range torrents {
		matched := true
		for _, tag := range tags {
			matched = matched && hasLabel(t, tag)
		}
		if !matched {
			continue
		}
		views = append(views, normalizeTorrent(t, now))
	}
	return views, nil
}

// hasLabel reports whether t carries label among its Transmission labels;
// there is no tag concept in Transmission, so labels stand in for tags
// (spec.md §6 downloader-API plugin, consistent with AddTorrent).
func hasLabel(t transmissionrpc.Torrent, label string) bool {
	if t.Labels == nil {
		return false
	}
	for _, l := range *t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

func normalizeTorrent(t transmissionrpc.Torrent, now time.Time) domain.TorrentView {
	dateDone := deref(t.DoneDate).Unix()
	if dateDone <= 0 {
		dateDone = deref(t.AddedDate).Unix()
	}
	seedingTimeS := backend.SeedingTimeSeconds(dateDone, now)

	var trackers []string
	for _, ts := range t.TrackerStats {
		trackers = append(trackers, ts.Announce)
	}
	trackers = backend.SanitizeTrackers(trackers)

	site := ""
	if len(t.TrackerStats) > 0 {
		site = t.TrackerStats[0].SitenameTracker
	}
	if site == "" {
		site = backend.SiteFromTracker(trackers)
	}

	return domain.TorrentView{
		ID:           deref(t.HashString),
		IsQB:         false,
		Name:         deref(t.Name),
		Size:         int64(deref(t.TotalSize)),
		Progress:     deref(t.PercentDone),
		Ratio:        deref(t.UploadRatio),
		Uploaded:     int64(deref(t.UploadedEver)),
		DateDone:     dateDone,
		SeedingTimeS: seedingTimeS,
		AvgUpspeed:   backend.AvgUpspeed(int64(deref(t.UploadedEver)), seedingTimeS),
		SavePath:     deref(t.DownloadDir),
		Trackers:     trackers,
		Site:         site,
		ErrorString:  deref(t.ErrorString),
	}
}

func (a *Adapter) idsFor(hashes []string) []int64 {
	a.client.mu.RLock()
	defer a.client.mu.RUnlock()
	ids := make([]int64, 0, len(hashes))
	for _, h := range hashes {
		if id, ok := a.client.hashToID[h]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// AddTorrent submits torrentURL tagged with tag as a Transmission label
// (spec.md §6 downloader-API plugin); Transmission has no separate "tag"
// concept, so labels stand in for it.
func (a *Adapter) AddTorrent(ctx context.Context, torrentURL, tag string) error {
	payload := transmissionrpc.TorrentAddPayload{
		Filename: &torrentURL,
		Labels:   &[]string{tag},
	}
	if _, err := a.client.rpc.TorrentAdd(ctx, payload); err != nil {
		return fmt.Errorf("transmission %s: add torrent: %w", a.client.name, err)
	}
	return nil
}

func (a *Adapter) GetFiles(ctx context.Context, id string) ([]backend.File, error) {
	torrents, err := a.client.rpc.TorrentGet(ctx, []string{"files", "fileStats"}, a.idsFor([]string{id}))
	if err != nil || len(torrents) == 0 {
		return nil, fmt.Errorf("transmission %s: get files %s: %w", a.client.name, id, err)
	}
	t := torrents[0]
	files := make([]backend.File, 0, len(t.Files))
	for i, f := range t.Files {
		priority := 0
		progress := 0.0
		if i < len(t.FileStats) {
			progress = float64(f.BytesCompleted) / float64(f.Length)
			if !t.FileStats[i].Wanted {
				priority = 0
			} else {
				priority = 1
			}
		}
		files = append(files, backend.File{ID: i, Name: f.Name, Priority: priority, Progress: progress})
	}
	return files, nil
}

func (a *Adapter) SetFiles(ctx context.Context, id string, fileIDs []int, priority int) error {
	ids := a.idsFor([]string{id})
	if len(ids) == 0 {
		return fmt.Errorf("transmission %s: unknown torrent %s", a.client.name, id)
	}
	wanted := make([]int64, len(fileIDs))
	for i, fid := range fileIDs {
		wanted[i] = int64(fid)
	}
	payload := transmissionrpc.TorrentSetPayload{IDs: ids}
	if priority <= 0 {
		payload.FilesUnwanted = wanted
	} else {
		payload.FilesWanted = wanted
	}
	if err := a.client.rpc.TorrentSet(ctx, payload); err != nil {
		return fmt.Errorf("transmission %s: set files %s: %w", a.client.name, id, err)
	}
	return nil
}

func (a *Adapter) StopTorrents(ctx context.Context, ids []string) error {
	if err := a.client.rpc.TorrentStopIDs(ctx, a.idsFor(ids)); err != nil {
		return fmt.Errorf("transmission %s: stop: %w", a.client.name, err)
	}
	return nil
}

func (a *Adapter) StartTorrents(ctx context.Context, ids []string) error {
	if err := a.client.rpc.TorrentStartIDs(ctx, a.idsFor(ids)); err != nil {
		return fmt.Errorf("transmission %s: start: %w", a.client.name, err)
	}
	return nil
}

// ForceStart maps to Transmission's "start now" (bypass queue), the closest
// analog to QB's force_start flag (spec.md §4.3 force_start).
func (a *Adapter) ForceStart(ctx context.Context, ids []string) (bool, error) {
	if err := a.client.rpc.TorrentStartNowIDs(ctx, a.idsFor(ids)); err != nil {
		return false, fmt.Errorf("transmission %s: force start: %w", a.client.name, err)
	}
	return true, nil
}

func (a *Adapter) DeleteTorrents(ctx context.Context, ids []string, deleteFiles bool) error {
	payload := transmissionrpc.TorrentRemovePayload{
		IDs:             a.idsFor(ids),
		DeleteLocalData: deleteFiles,
	}
	if err := a.client.rpc.TorrentRemove(ctx, payload); err != nil {
		return fmt.Errorf("transmission %s: delete: %w", a.client.name, err)
	}
	return nil
}

var _ backend.Adapter = (*Adapter)(nil)
