// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package events implements the small in-memory event bus the host
// harness uses to stand in for the media-automation host's event bus
// (spec.md §6). It carries two logical event kinds consumed by the
// removal engine and one emitted by the downloader-API plugin.
package events

import "sync"

// DownloadAdded fires when a new download has been added to a backend.
type DownloadAdded struct {
	Hash string
}

// PluginAction is a generic action event. ActionDownloaderAPIAdd is the
// only action the removal engine's on_plugin_action handler reacts to
// (spec.md §4.1.1).
type PluginAction struct {
	Action string
	Hash   string
}

const ActionDownloaderAPIAdd = "downloaderapi_add"

// Bus is a minimal fan-out publish/subscribe bus. Subscribers receive
// events on a buffered channel; a slow subscriber never blocks Publish.
type Bus struct {
	mu                sync.RWMutex
	downloadAdded     []chan DownloadAdded
	pluginAction      []chan PluginAction
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeDownloadAdded registers a new listener and returns its channel.
func (b *Bus) SubscribeDownloadAdded() <-chan DownloadAdded {
	ch := make(chan DownloadAdded, 16)
	b.mu.Lock()
	b.downloadAdded = append(b.downloadAdded, ch)
	b.mu.Unlock()
	return ch
}

// SubscribePluginAction registers a new listener and returns its channel.
func (b *Bus) SubscribePluginAction() <-chan PluginAction {
	ch := make(chan PluginAction, 16)
	b.mu.Lock()
	b.pluginAction = append(b.pluginAction, ch)
	b.mu.Unlock()
	return ch
}

// PublishDownloadAdded delivers the event to every subscriber, dropping
// it for any subscriber whose buffer is full rather than blocking.
func (b *Bus) PublishDownloadAdded(ev DownloadAdded) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.downloadAdded {
		select {
		case ch <- ev:
		default:
		}
	}
}

// PublishPluginAction delivers the event to every subscriber.
func (b *Bus) PublishPluginAction(ev PluginAction) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.pluginAction {
		select {
		case ch <- ev:
		default:
		}
	}
}
