// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package metrics wires the removal engine counters, together with the Go
// runtime and process collectors, onto one Prometheus registry (spec.md
// §2 "Shared" row). The materializer registers no metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/removal"
)

// Manager owns the process-wide Prometheus registry exposed by the host's
// /metrics endpoint.
type Manager struct {
	registry *prometheus.Registry
	Removal  *removal.RemovalMetrics
}

func NewManager() *Manager {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	removalMetrics := removal.NewRemovalMetrics()
	for _, c := range removalMetrics.Collectors() {
		registry.MustRegister(c)
	}

	log.Info().Msg("metrics: manager initialized")

	return &Manager{registry: registry, Removal: removalMetrics}
}

func (m *Manager) GetRegistry() *prometheus.Registry {
	return m.registry
}
