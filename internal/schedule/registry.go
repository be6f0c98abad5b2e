// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package schedule owns the cron job lifecycle the real host's cron
// runner would otherwise provide (spec.md §1, out of scope; §4.1.4
// "own cron job lifecycle" is in scope for the plugin). It is a thin
// wrapper over robfig/cron/v3 giving every plugin a uniform
// add/replace/stop surface.
package schedule

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Registry owns one cron.Cron runner shared by the host's plugins.
type Registry struct {
	c *cron.Cron

	mu     sync.Mutex
	byName map[string]cron.EntryID
}

func NewRegistry() *Registry {
	r := &Registry{c: cron.New(cron.WithSeconds()), byName: make(map[string]cron.EntryID)}
	r.c.Start()
	return r
}

// AddJob schedules fn on the given cron spec under name, replacing any
// job already registered under that name. Returns the assigned entry ID.
func (r *Registry) AddJob(name, spec string, fn func()) (cron.EntryID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byName[name]; ok {
		r.c.Remove(prev)
	}

	id, err := r.c.AddFunc(spec, fn)
	if err != nil {
		delete(r.byName, name)
		return 0, err
	}
	r.byName[name] = id
	log.Debug().Str("job", name).Str("spec", spec).Msg("schedule: registered cron job")
	return id, nil
}

// RemoveJob unschedules a previously added job.
func (r *Registry) RemoveJob(id cron.EntryID) {
	r.c.Remove(id)
}

// RemoveJobByName unschedules whatever job is currently registered under
// name, if any.
func (r *Registry) RemoveJobByName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[name]; ok {
		r.c.Remove(id)
		delete(r.byName, name)
	}
}

// RunOnceAfter schedules fn to run a single time after delay, returning
// a cancel function that aborts the pending run if it hasn't fired yet.
// Used for RemovalConfig.OnlyOnce's "one-shot 3s in the future"
// (spec.md §4.1.4).
func RunOnceAfter(delay time.Duration, fn func()) (cancel func()) {
	timer := time.AfterFunc(delay, fn)
	return func() { timer.Stop() }
}

// Stop tears down the underlying cron runner; in-flight jobs are
// allowed to finish.
func (r *Registry) Stop() {
	ctx := r.c.Stop()
	<-ctx.Done()
}
