// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/events"
	"github.com/mpplugins/core/internal/plugin"
	"github.com/mpplugins/core/internal/schedule"
	"github.com/mpplugins/core/pkg/debounce"
)

const debounceDelay = 5 * time.Second

const cronJobName = "removal"

// ManagedTag is the host's fixed tag for torrents it added itself,
// appended to the label filter when mponly is set (spec.md §4.1.2
// "and, if mponly, the host's managed tag").
const ManagedTag = "MOVIEPILOT"

// Notifier delivers the aggregated text an enabled pass produces
// (spec.md §7 "optional notification on completion when notify=true").
// The host's actual notification channel is out of scope; this is the
// seam the plugin calls into.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Engine implements plugin.Plugin for the torrent removal engine
// (spec.md §4.1).
type Engine struct {
	mu       sync.Mutex // pass-level exclusion (spec.md §5 "C1")
	cfg      domain.RemovalConfig
	backends map[string]backend.Adapter
	notifier Notifier
	metrics  *RemovalMetrics

	debouncer *debounce.Debouncer
	cancel    atomic.Bool

	registry   *schedule.Registry
	onceCancel func()
}

// NewEngine constructs an Engine; backends maps a configured downloader
// name to its live Adapter.
func NewEngine(backends map[string]backend.Adapter, notifier Notifier, metrics *RemovalMetrics) *Engine {
	return &Engine{backends: backends, notifier: notifier, metrics: metrics}
}

var _ plugin.Plugin = (*Engine)(nil)

// Init validates cfg, tears down any prior scheduler state and rebuilds
// the debounce timer (spec.md §4.1.4).
func (e *Engine) Init(ctx context.Context, rawConfig any) error {
	cfg, ok := rawConfig.(domain.RemovalConfig)
	if !ok {
		return fmt.Errorf("%w: expected domain.RemovalConfig, got %T", domain.ErrConfigInvalid, rawConfig)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	_ = e.Stop()

	e.mu.Lock()
	e.cfg = cfg
	e.cancel.Store(false)
	if cfg.MonitorDownload {
		e.debouncer = debounce.New(debounceDelay)
	}
	e.mu.Unlock()

	if cfg.OnlyOnce {
		e.onceCancel = schedule.RunOnceAfter(3*time.Second, func() {
			e.RunOnce(context.Background())
		})
		cfg.OnlyOnce = false
		e.mu.Lock()
		e.cfg = cfg
		e.mu.Unlock()
	}

	return nil
}

// State returns a snapshot for the host's status surface.
func (e *Engine) State() any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return struct {
		Enabled bool   `json:"enabled"`
		Action  string `json:"action"`
	}{Enabled: e.cfg.Enabled, Action: string(e.cfg.Action)}
}

// Stop performs a best-effort shutdown (spec.md §4.1.4).
func (e *Engine) Stop() error {
	e.mu.Lock()
	d := e.debouncer
	e.debouncer = nil
	onceCancel := e.onceCancel
	e.onceCancel = nil
	reg := e.registry
	e.mu.Unlock()

	if onceCancel != nil {
		onceCancel()
	}
	if d != nil {
		d.Stop()
	}
	if reg != nil {
		reg.RemoveJobByName(cronJobName)
	}
	return nil
}

// RegisterServices exposes a cron-driven run_once entry when enabled,
// has a cron spec and at least one configured backend (spec.md §4.1.1).
func (e *Engine) RegisterServices(reg *schedule.Registry) {
	e.mu.Lock()
	e.registry = reg
	cfg := e.cfg
	e.mu.Unlock()

	if !cfg.Enabled || cfg.Cron == "" || len(e.backends) == 0 {
		return
	}
	if _, err := reg.AddJob(cronJobName, cfg.Cron, func() { e.RunOnce(context.Background()) }); err != nil {
		log.Error().Err(err).Msg("removal: failed to register cron job")
	}
}

// HandleDownloadAdded arms the debounce timer when monitor_download is set
// (spec.md §4.1.1).
func (e *Engine) HandleDownloadAdded(ev events.DownloadAdded) {
	e.mu.Lock()
	d := e.debouncer
	e.mu.Unlock()
	if d != nil {
		d.Do(func() { e.RunOnce(context.Background()) })
	}
}

// HandlePluginAction arms the debounce timer for downloaderapi_add actions
// (spec.md §4.1.1).
func (e *Engine) HandlePluginAction(ev events.PluginAction) {
	if ev.Action != events.ActionDownloaderAPIAdd {
		return
	}
	e.HandleDownloadAdded(events.DownloadAdded{Hash: ev.Hash})
}

// RunOnce performs one full removal pass across every configured backend
// (spec.md §4.1.1, §4.1.5). It serializes against concurrent callers.
func (e *Engine) RunOnce(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.cfg
	if !cfg.Enabled {
		return
	}

	for _, name := range cfg.Downloaders {
		adapter, ok := e.backends[name]
		if !ok {
			continue
		}
		e.runBackend(ctx, adapter, cfg)
	}
}

func (e *Engine) runBackend(ctx context.Context, adapter backend.Adapter, cfg domain.RemovalConfig) {
	if adapter.IsInactive() {
		log.Warn().Str("backend", adapter.Name()).Msg("removal: backend unavailable, skipping this pass")
		return
	}

	tags := cfg.Labels
	if cfg.MPOnly {
		tags = append(append([]string{}, cfg.Labels...), ManagedTag)
	}

	views, err := adapter.GetTorrents(ctx, tags)
	if err != nil {
		log.Error().Err(err).Str("backend", adapter.Name()).Msg("removal: list torrents failed")
		return
	}

	selected, err := Select(views, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", adapter.Name()).Msg("removal: selection failed")
		return
	}

	acted := Dispatch(ctx, adapter, cfg.Action, selected, &e.cancel)
	if e.metrics != nil {
		e.metrics.ObservePass(adapter.Name())
		for range acted {
			e.metrics.ObserveAction(adapter.Name(), string(cfg.Action), false)
		}
	}

	if cfg.Notify && e.notifier != nil {
		if msg := Summarize(adapter.Name(), cfg.Action, acted); msg != "" {
			if err := e.notifier.Notify(ctx, msg); err != nil {
				log.Error().Err(err).Msg("removal: notification failed")
			}
		}
	}
}

// Select applies remove_mode and cross-seed expansion (spec.md §4.1.2).
func Select(views []domain.TorrentView, cfg domain.RemovalConfig) ([]domain.TorrentView, error) {
	preds, err := BuildPredicates(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RemoveMode == domain.RemoveModeCondition {
		var selected []domain.TorrentView
		for _, v := range views {
			if MatchesCondition(preds, cfg, v) {
				selected = append(selected, v)
			}
		}
		if cfg.SameData {
			selected = ExpandCrossSeeds(views, selected)
		}
		return selected, nil
	}

	sorted := sortForStrategy(views, cfg.StrategyAction)

	var decisions []decision
	switch cfg.Strategy {
	case domain.StrategyFreeSpace:
		free, err := DiskFree(cfg.FreeSpaceDetectPath)
		if err != nil {
			return nil, err
		}
		decisions = FreeSpaceDecisions(sorted, preds, cfg, free, cfg.StrategyValue)
	case domain.StrategyMaximumCountSeeds:
		decisions = MaximumCountDecisions(sorted, preds, cfg, int(cfg.StrategyValue))
	case domain.StrategyMaximumSizeSeeds:
		decisions = MaximumSizeDecisions(sorted, preds, cfg, cfg.StrategyValue)
	}

	selected := runDecisionStream(decisions, cfg.SameData)
	if cfg.SameData {
		selected = ExpandCrossSeeds(views, selected)
	}
	return selected, nil
}
