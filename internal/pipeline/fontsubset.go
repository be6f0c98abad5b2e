// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package pipeline holds the font-collection and subtitle-subsetting
// plugins: thin pipelines over the same backend.Adapter seam C1 uses,
// noted but not specified in depth (spec.md §1, §9).
package pipeline

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/events"
	"github.com/mpplugins/core/internal/plugin"
	"github.com/mpplugins/core/internal/schedule"
)

// FontSubsetConfig is the minimal surface this pipeline needs: whether it
// runs, and which font/subtitle file suffixes it collects for subsetting.
// Backend is carried but not read; the pipeline uses the adapter passed
// to NewFontSubset.
type FontSubsetConfig struct {
	Enabled  bool
	Backend  string
	Suffixes []string
}

// FontSubset is a stub implementation of plugin.Plugin: on each
// DownloadAdded event it lists the files of that torrent from the same
// backend.Adapter C1 uses and logs
// candidates for subsetting. The subsetting step itself (archive
// extraction, font collection, glyph-range computation) is an external
// collaborator this module has no seam for today, since backend.Adapter
// exposes no on-disk file path to extract from — not specified in depth
// here.
type FontSubset struct {
	cfg     FontSubsetConfig
	backend backend.Adapter
}

// NewFontSubset builds a FontSubset pipeline bound to one backend.
func NewFontSubset(b backend.Adapter) *FontSubset {
	return &FontSubset{backend: b}
}

var _ plugin.Plugin = (*FontSubset)(nil)

func (f *FontSubset) Init(ctx context.Context, rawConfig any) error {
	cfg, ok := rawConfig.(FontSubsetConfig)
	if !ok {
		return nil
	}
	f.cfg = cfg
	return nil
}

func (f *FontSubset) State() any {
	return struct {
		Enabled bool `json:"enabled"`
	}{Enabled: f.cfg.Enabled}
}

func (f *FontSubset) Stop() error { return nil }

func (f *FontSubset) RegisterServices(reg *schedule.Registry) {}

func (f *FontSubset) HandleDownloadAdded(ev events.DownloadAdded) {
	if !f.cfg.Enabled || f.backend == nil {
		return
	}
	f.collect(context.Background(), ev.Hash)
}

func (f *FontSubset) HandlePluginAction(ev events.PluginAction) {}

// collect lists the files of one torrent and logs any whose suffix is
// tracked for subsetting. This is the full extent of this pipeline;
// the actual subset computation lives outside this module's scope.
func (f *FontSubset) collect(ctx context.Context, hash string) {
	files, err := f.backend.GetFiles(ctx, hash)
	if err != nil {
		log.Error().Err(err).Str("hash", hash).Msg("fontsubset: list files failed")
		return
	}

	var candidates []string
	for _, file := range files {
		for _, suffix := range f.cfg.Suffixes {
			if hasSuffix(file.Name, suffix) {
				candidates = append(candidates, file.Name)
				break
			}
		}
	}
	if len(candidates) > 0 {
		log.Info().Str("hash", hash).Strs("files", candidates).Msg("fontsubset: candidates collected")
	}
}

func hasSuffix(name, suffix string) bool {
	if len(suffix) > len(name) {
		return false
	}
	return name[len(name)-len(suffix):] == suffix
}
