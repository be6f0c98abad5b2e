// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "nested", "app.log")

	m := NewManager()
	m.Initialize("info")
	require.NoError(t, m.Apply("debug", logPath, 10, 1))

	assert.DirExists(t, filepath.Dir(logPath))
}

func TestApplyWithoutPathLeavesRotatorUnset(t *testing.T) {
	m := NewManager()
	m.Initialize("warn")
	require.NoError(t, m.Apply("warn", "", 0, 0))
	assert.Nil(t, m.rotator)
}
