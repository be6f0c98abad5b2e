// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRemovalMetricsObserve(t *testing.T) {
	m := NewRemovalMetrics()
	m.ObservePass("qbt1")
	m.ObserveAction("qbt1", "pause", false)
	m.ObserveAction("qbt1", "pause", true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.passesTotal.WithLabelValues("qbt1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("qbt1", "pause")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failuresTotal.WithLabelValues("qbt1")))
}

func TestRemovalMetricsNilSafe(t *testing.T) {
	var m *RemovalMetrics
	m.ObservePass("qbt1")
	m.ObserveAction("qbt1", "pause", false)
}
