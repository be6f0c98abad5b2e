// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package api exposes the host's optional HTTP surface: the
// downloader-API plugin's add-torrent endpoint and the Prometheus
// /metrics endpoint (spec.md §6).
package api

import (
	"net/http"

	"github.com/CAFxX/httpcompression"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/backend"
	"github.com/mpplugins/core/internal/events"
)

// Dependencies holds everything the router needs to wire its handlers.
type Dependencies struct {
	Backends        map[string]backend.Adapter
	Bus             *events.Bus
	MetricsRegistry *prometheus.Registry
	AllowedOrigins  []string
}

// NewRouter builds the host's HTTP surface (spec.md §6).
func NewRouter(deps *Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	compressor, err := httpcompression.DefaultAdapter()
	if err != nil {
		log.Error().Err(err).Msg("api: failed to create HTTP compression adapter")
	} else {
		r.Use(compressor)
	}

	r.Use(cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler)

	downloaderHandler := NewDownloaderAPIHandler(deps.Backends, deps.Bus)
	r.Get("/download_torrent_notest", downloaderHandler.AddTorrent)

	if deps.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
