// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import "github.com/prometheus/client_golang/prometheus"

// RemovalMetrics are the removal-engine counters registered on the host's
// Prometheus registry (spec.md §2 "Shared" row).
type RemovalMetrics struct {
	passesTotal   *prometheus.CounterVec
	actionsTotal  *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
}

// NewRemovalMetrics constructs the removal-engine counter set; callers
// register the returned collectors on their Prometheus registry.
func NewRemovalMetrics() *RemovalMetrics {
	return &RemovalMetrics{
		passesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpplugins",
			Subsystem: "removal",
			Name:      "passes_total",
			Help:      "Completed run_once passes, per backend.",
		}, []string{"backend"}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpplugins",
			Subsystem: "removal",
			Name:      "actions_total",
			Help:      "Torrents acted on, per backend and action.",
		}, []string{"backend", "action"}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mpplugins",
			Subsystem: "removal",
			Name:      "failures_total",
			Help:      "Per-torrent action failures, per backend.",
		}, []string{"backend"}),
	}
}

// Collectors returns every collector for registration on a Prometheus registry.
func (m *RemovalMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.passesTotal, m.actionsTotal, m.failuresTotal}
}

func (m *RemovalMetrics) ObservePass(backendName string) {
	if m == nil {
		return
	}
	m.passesTotal.WithLabelValues(backendName).Inc()
}

func (m *RemovalMetrics) ObserveAction(backendName, action string, failed bool) {
	if m == nil {
		return
	}
	if failed {
		m.failuresTotal.WithLabelValues(backendName).Inc()
		return
	}
	m.actionsTotal.WithLabelValues(backendName, action).Inc()
}
