// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package materializer implements C2: a remote logical file tree is
// traversed over an HTTP listing API and turned into local ".strm"
// shortcuts and downloaded subtitle files, with an optional garbage
// collection pass over stale local artifacts (spec.md §4.2).
package materializer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/events"
	"github.com/mpplugins/core/internal/materializer/listclient"
	"github.com/mpplugins/core/internal/plugin"
	"github.com/mpplugins/core/internal/schedule"
)

const cronJobName = "materializer"

// Materializer implements plugin.Plugin for C2 (spec.md §4.2).
type Materializer struct {
	mu     sync.Mutex // pass-level exclusion, mirrors C1 (spec.md §5)
	cfg    domain.MaterializerConfig
	client *listclient.Client
	filter GCFilter

	registry   *schedule.Registry
	onceCancel func()
}

// NewMaterializer constructs a Materializer with no active configuration.
func NewMaterializer() *Materializer {
	return &Materializer{}
}

var _ plugin.Plugin = (*Materializer)(nil)

// Init validates cfg, tears down any prior scheduler state and rebuilds
// the listing client and GC filter (spec.md §4.2.1, §4.1.4's Init/Stop
// contract applies identically here).
func (m *Materializer) Init(ctx context.Context, rawConfig any) error {
	cfg, ok := rawConfig.(domain.MaterializerConfig)
	if !ok {
		return fmt.Errorf("%w: expected domain.MaterializerConfig, got %T", domain.ErrConfigInvalid, rawConfig)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	_ = m.Stop()

	m.mu.Lock()
	m.cfg = cfg
	m.client = listclient.New(cfg.URL, cfg.Token, 30*time.Second)
	if cfg.SyncRemote {
		m.filter = NewGCFilter(cfg.FilterMode, cfg.TargetDir)
	} else {
		m.filter = nil
	}
	m.mu.Unlock()

	if cfg.OnlyOnce {
		m.onceCancel = schedule.RunOnceAfter(3*time.Second, func() {
			m.RunOnce(context.Background())
		})
		cfg.OnlyOnce = false
		m.mu.Lock()
		m.cfg = cfg
		m.mu.Unlock()
	}

	return nil
}

// State returns a snapshot for the host's status surface.
func (m *Materializer) State() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return struct {
		Enabled   bool   `json:"enabled"`
		SourceDir string `json:"source_dir"`
		TargetDir string `json:"target_dir"`
	}{Enabled: m.cfg.Enabled, SourceDir: m.cfg.SourceDir, TargetDir: m.cfg.TargetDir}
}

// Stop performs a best-effort shutdown (spec.md §4.1.4's contract applies
// identically to C2).
func (m *Materializer) Stop() error {
	m.mu.Lock()
	onceCancel := m.onceCancel
	m.onceCancel = nil
	reg := m.registry
	m.mu.Unlock()

	if onceCancel != nil {
		onceCancel()
	}
	if reg != nil {
		reg.RemoveJobByName(cronJobName)
	}
	return nil
}

// RegisterServices exposes a cron-driven run_once entry when enabled and
// a cron spec is configured (spec.md §4.2.1).
func (m *Materializer) RegisterServices(reg *schedule.Registry) {
	m.mu.Lock()
	m.registry = reg
	cfg := m.cfg
	m.mu.Unlock()

	if !cfg.Enabled || cfg.Cron == "" {
		return
	}
	if _, err := reg.AddJob(cronJobName, cfg.Cron, func() { m.RunOnce(context.Background()) }); err != nil {
		log.Error().Err(err).Msg("materializer: failed to register cron job")
	}
}

// HandleDownloadAdded is a no-op; C2 is cron/one-shot driven only (spec.md
// §4.2.1 control flow).
func (m *Materializer) HandleDownloadAdded(ev events.DownloadAdded) {}

// HandlePluginAction is a no-op for the same reason.
func (m *Materializer) HandlePluginAction(ev events.PluginAction) {}

// RunOnce executes one full traversal + materialize + GC pass, serialized
// against concurrent callers (spec.md §4.2.1, §5 "C2").
func (m *Materializer) RunOnce(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cfg.Enabled {
		return
	}

	pass := NewPass(m.client, m.cfg, m.filter)
	if err := pass.Run(ctx); err != nil {
		log.Error().Err(err).Msg("materializer: pass failed")
	}
}
