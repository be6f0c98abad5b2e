// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/api"
	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/backend/qbittorrent"
	"github.com/mpplugins/core/internal/backend/transmission"
	"github.com/mpplugins/core/internal/config"
	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/events"
	"github.com/mpplugins/core/internal/logging"
	"github.com/mpplugins/core/internal/materializer"
	"github.com/mpplugins/core/internal/metrics"
	"github.com/mpplugins/core/internal/pipeline"
	"github.com/mpplugins/core/internal/plugin"
	"github.com/mpplugins/core/internal/removal"
	"github.com/mpplugins/core/internal/schedule"
)

// host bundles every long-lived component the run command starts and
// stops together. It stands in for the real media-automation host
// this module is a plugin of (spec.md §1, out of scope).
type host struct {
	cfg      *config.AppConfig
	logs     *logging.Manager
	bus      *events.Bus
	registry *schedule.Registry
	metrics  *metrics.Manager
	backends map[string]backend.Adapter

	removalEngine *removal.Engine
	materializer  *materializer.Materializer
	fontsubset    *pipeline.FontSubset

	server *http.Server
}

func newHost(cfgPath string) (*host, error) {
	appCfg, err := config.New(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logs := logging.NewManager()
	logs.Initialize(appCfg.Get().LogLevel)
	hc := appCfg.Get()
	if err := logs.Apply(hc.LogLevel, hc.LogPath, hc.LogMaxSize, hc.LogMaxBackups); err != nil {
		log.Warn().Err(err).Msg("mpplugind: applying log settings failed, continuing with console only")
	} else if err := appCfg.PersistLogSettings(hc.LogLevel, hc.LogPath, hc.LogMaxSize, hc.LogMaxBackups); err != nil {
		log.Warn().Err(err).Msg("mpplugind: normalizing log settings in config.toml failed")
	}

	backends, err := buildBackends(hc.Backends)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	registry := schedule.NewRegistry()
	mgr := metrics.NewManager()

	var primary backend.Adapter
	for _, a := range backends {
		primary = a
		break
	}

	h := &host{
		cfg:           appCfg,
		logs:          logs,
		bus:           bus,
		registry:      registry,
		metrics:       mgr,
		backends:      backends,
		removalEngine: removal.NewEngine(backends, logNotifier{}, mgr.Removal),
		materializer:  materializer.NewMaterializer(),
		fontsubset:    pipeline.NewFontSubset(primary),
	}

	if err := h.applyConfig(hc); err != nil {
		return nil, err
	}

	_ = appCfg.Watch(func(next domain.HostConfig) {
		if err := h.applyConfig(next); err != nil {
			log.Error().Err(err).Msg("mpplugind: config reload failed")
		}
	})

	return h, nil
}

// applyConfig re-initializes the removal engine and the materializer from
// the current HostConfig, mirroring the Plugin.Init contract: re-entering
// is a teardown+rebuild (spec.md §4.1.4). A disabled (or absent) block
// stops that plugin instead of initializing it.
func (h *host) applyConfig(hc domain.HostConfig) error {
	if hc.Removal.Enabled {
		if err := h.removalEngine.Init(context.Background(), hc.Removal); err != nil {
			return fmt.Errorf("removal: %w", err)
		}
		h.removalEngine.RegisterServices(h.registry)
	} else {
		_ = h.removalEngine.Stop()
	}

	if hc.Materializer.Enabled {
		if err := h.materializer.Init(context.Background(), hc.Materializer); err != nil {
			return fmt.Errorf("materializer: %w", err)
		}
		h.materializer.RegisterServices(h.registry)
	} else {
		_ = h.materializer.Stop()
	}

	return nil
}

func (h *host) subscribe(ctx context.Context, p plugin.Plugin) {
	downloadAdded := h.bus.SubscribeDownloadAdded()
	pluginAction := h.bus.SubscribePluginAction()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-downloadAdded:
				p.HandleDownloadAdded(ev)
			case ev := <-pluginAction:
				p.HandlePluginAction(ev)
			}
		}
	}()
}

// serve starts the HTTP surface (downloader-API + /metrics) and blocks
// until ctx is cancelled (spec.md §6).
func (h *host) serve(ctx context.Context) error {
	hc := h.cfg.Get()

	router := api.NewRouter(&api.Dependencies{
		Backends:        h.backends,
		Bus:             h.bus,
		MetricsRegistry: h.metrics.GetRegistry(),
		AllowedOrigins:  []string{"*"},
	})

	addr := fmt.Sprintf("%s:%d", hc.Host, hc.Port)
	h.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- h.server.ListenAndServe() }()
	log.Info().Str("addr", addr).Msg("mpplugind: HTTP server started")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return h.server.Shutdown(shutdownCtx)
}

func (h *host) close() {
	_ = h.removalEngine.Stop()
	_ = h.materializer.Stop()
	h.registry.Stop()
	_ = h.cfg.Close()
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, and the
// stop function that releases the signal hook.
func signalContext(ctx context.Context) (context.Context, func()) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// buildBackends dials every configured downloader (spec.md §4.3).
func buildBackends(cfgs map[string]domain.BackendConfig) (map[string]backend.Adapter, error) {
	out := make(map[string]backend.Adapter, len(cfgs))
	for name, c := range cfgs {
		switch c.Kind {
		case domain.BackendKindQbittorrent:
			client, err := qbittorrent.NewClient(name, c.Host, c.Username, c.Password)
			if err != nil {
				return nil, fmt.Errorf("backend %q: %w", name, err)
			}
			out[name] = qbittorrent.New(client)
		case domain.BackendKindTransmission:
			client, err := transmission.NewClient(name, c.Host, c.Username, c.Password)
			if err != nil {
				return nil, fmt.Errorf("backend %q: %w", name, err)
			}
			out[name] = transmission.New(client)
		default:
			return nil, fmt.Errorf("backend %q: unknown kind %q", name, c.Kind)
		}
	}
	return out, nil
}

// logNotifier is the default removal.Notifier: the real media-automation
// host's notification channel is out of scope (spec.md §1), so this
// stub just logs the summary.
type logNotifier struct{}

func (logNotifier) Notify(_ context.Context, message string) error {
	log.Info().Str("source", "removal").Msg(message)
	return nil
}
