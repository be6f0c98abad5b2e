// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/events"
)

type stubAdapter struct {
	files []backend.File
}

func (s *stubAdapter) Name() string { return "stub" }
func (s *stubAdapter) GetTorrents(ctx context.Context, tags []string) ([]domain.TorrentView, error) {
	return nil, nil
}
func (s *stubAdapter) AddTorrent(ctx context.Context, torrentURL, tag string) error { return nil }
func (s *stubAdapter) GetFiles(ctx context.Context, id string) ([]backend.File, error) {
	return s.files, nil
}
func (s *stubAdapter) SetFiles(ctx context.Context, id string, fileIDs []int, priority int) error {
	return nil
}
func (s *stubAdapter) StopTorrents(ctx context.Context, ids []string) error  { return nil }
func (s *stubAdapter) StartTorrents(ctx context.Context, ids []string) error { return nil }
func (s *stubAdapter) ForceStart(ctx context.Context, ids []string) (bool, error) {
	return true, nil
}
func (s *stubAdapter) DeleteTorrents(ctx context.Context, ids []string, deleteFiles bool) error {
	return nil
}
func (s *stubAdapter) IsInactive() bool { return false }

var _ backend.Adapter = (*stubAdapter)(nil)

func TestFontSubsetInitAcceptsConfig(t *testing.T) {
	f := NewFontSubset(&stubAdapter{})
	err := f.Init(context.Background(), FontSubsetConfig{Enabled: true, Suffixes: []string{".ttf"}})
	assert.NoError(t, err)
	assert.True(t, f.cfg.Enabled)
}

func TestFontSubsetHandleDownloadAddedNoopWhenDisabled(t *testing.T) {
	f := NewFontSubset(&stubAdapter{})
	f.HandleDownloadAdded(events.DownloadAdded{Hash: "abc"})
}

func TestFontSubsetCollectFindsCandidates(t *testing.T) {
	adapter := &stubAdapter{files: []backend.File{{Name: "a.ttf"}, {Name: "b.mkv"}}}
	f := NewFontSubset(adapter)
	require := assert.New(t)
	require.NoError(f.Init(context.Background(), FontSubsetConfig{Enabled: true, Suffixes: []string{".ttf"}}))

	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	f.HandleDownloadAdded(events.DownloadAdded{Hash: "abc"})
	require.Contains(buf.String(), "a.ttf")
	require.NotContains(buf.String(), "b.mkv")
}
