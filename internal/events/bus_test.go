// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDownloadAddedFanOut(t *testing.T) {
	b := NewBus()
	a := b.SubscribeDownloadAdded()
	c := b.SubscribeDownloadAdded()

	b.PublishDownloadAdded(DownloadAdded{Hash: "deadbeef"})

	select {
	case ev := <-a:
		assert.Equal(t, "deadbeef", ev.Hash)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event on subscriber a")
	}
	select {
	case ev := <-c:
		assert.Equal(t, "deadbeef", ev.Hash)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event on subscriber c")
	}
}

func TestBusPluginActionDownloaderAPIAdd(t *testing.T) {
	b := NewBus()
	sub := b.SubscribePluginAction()

	b.PublishPluginAction(PluginAction{Action: ActionDownloaderAPIAdd, Hash: "abc123"})

	select {
	case ev := <-sub:
		require.Equal(t, ActionDownloaderAPIAdd, ev.Action)
		assert.Equal(t, "abc123", ev.Hash)
	case <-time.After(time.Second):
		t.Fatal("timed out")
	}
}

func TestBusPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	b := NewBus()
	_ = b.SubscribeDownloadAdded() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.PublishDownloadAdded(DownloadAdded{Hash: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber channel")
	}
}
