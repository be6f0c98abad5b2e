// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package plugin generalizes the lifecycle every plugin in the host
// exposes: init(config), state(), stop(), service registration and
// handlers for the two event kinds (spec.md §1 "Shared").
package plugin

import (
	"context"

	"github.com/mpplugins/core/internal/events"
	"github.com/mpplugins/core/internal/schedule"
)

// Plugin is the generic surface the host wraps every CORE subsystem
// with. The real media-automation host's registration, form rendering
// and persistent config store are out of scope (spec.md §1); this
// interface is the seam between that host and C1/C2.
type Plugin interface {
	// Init validates rawConfig, tears down any prior scheduler and
	// rebuilds internal state. Re-entering Init is equivalent to
	// Stop followed by a fresh build (spec.md §4.1.4).
	Init(ctx context.Context, rawConfig any) error

	// State returns a snapshot suitable for the host's status surface.
	State() any

	// Stop performs a best-effort shutdown: scheduler teardown, draining
	// any pending debounce timer, releasing locks (spec.md §4.1.4).
	Stop() error

	// RegisterServices exposes this plugin's cron-driven entry points,
	// when enabled, to the host's scheduler.
	RegisterServices(reg *schedule.Registry)

	// HandleDownloadAdded reacts to a DownloadAdded event, when the
	// plugin cares about it.
	HandleDownloadAdded(ev events.DownloadAdded)

	// HandlePluginAction reacts to a PluginAction event.
	HandlePluginAction(ev events.PluginAction)
}
