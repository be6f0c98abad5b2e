// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemovalConfigValidate(t *testing.T) {
	t.Run("valid condition config", func(t *testing.T) {
		cfg := RemovalConfig{Action: ActionDelete, Connection: ConnectionAnd, RemoveMode: RemoveModeCondition, Size: "10-50"}
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects inverted size range", func(t *testing.T) {
		cfg := RemovalConfig{Action: ActionPause, Size: "50-10"}
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfigInvalid)
	})

	t.Run("rejects negative strategy value", func(t *testing.T) {
		cfg := RemovalConfig{Action: ActionPause, RemoveMode: RemoveModeStrategy, Strategy: StrategyFreeSpace, StrategyValue: -1}
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown connection", func(t *testing.T) {
		cfg := RemovalConfig{Action: ActionPause, Connection: "xor"}
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		cfg := RemovalConfig{Action: "nuke"}
		require.Error(t, cfg.Validate())
	})
}

func TestParseSizeRange(t *testing.T) {
	t.Run("single value has unbounded upper", func(t *testing.T) {
		low, high, err := ParseSizeRange("10")
		require.NoError(t, err)
		assert.Equal(t, int64(10<<30), low)
		assert.Greater(t, high, low)
	})

	t.Run("range", func(t *testing.T) {
		low, high, err := ParseSizeRange("10-50")
		require.NoError(t, err)
		assert.Equal(t, int64(10<<30), low)
		assert.Equal(t, int64(50<<30), high)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, _, err := ParseSizeRange("abc")
		require.Error(t, err)
	})

	t.Run("equal bounds fall back to unbounded upper", func(t *testing.T) {
		low, high, err := ParseSizeRange("10-10")
		require.NoError(t, err)
		assert.Equal(t, int64(10<<30), low)
		assert.Greater(t, high, low)
	})
}

func TestMaterializerConfigValidate(t *testing.T) {
	base := MaterializerConfig{
		MaxDepth: -1, MaxListWorker: 4, MaxDownloadWorker: 4,
		TraversalMode: TraversalBFS, FilterMode: FilterModeSet,
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, base.Validate())
	})

	t.Run("rejects bad max depth", func(t *testing.T) {
		cfg := base
		cfg.MaxDepth = -2
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects zero workers", func(t *testing.T) {
		cfg := base
		cfg.MaxListWorker = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown traversal mode", func(t *testing.T) {
		cfg := base
		cfg.TraversalMode = "flood"
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects unknown filter mode", func(t *testing.T) {
		cfg := base
		cfg.FilterMode = "nope"
		require.Error(t, cfg.Validate())
	})
}
