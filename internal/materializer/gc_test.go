// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package materializer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTargetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.strm"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.strm"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "old.srt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	return dir
}

func TestSetFilterSweepRemovesStaleOnly(t *testing.T) {
	dir := seedTargetDir(t)
	f := NewSetFilter(dir)

	keep := filepath.Join(dir, "keep.strm")
	old := filepath.Join(dir, "old.strm")

	f.Sweep(map[string]bool{keep: true})

	_, err := os.Stat(keep)
	assert.NoError(t, err)
	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, "ignored.txt"))
	assert.NoError(t, err, "untracked suffixes are never swept")
}

func TestIOFilterContainsProbesFilesystem(t *testing.T) {
	dir := seedTargetDir(t)
	f := NewIOFilter(dir)

	assert.True(t, f.Contains(filepath.Join(dir, "keep.strm")))
	assert.False(t, f.Contains(filepath.Join(dir, "missing.strm")))
}

func TestIOFilterSweepRemovesStaleOnly(t *testing.T) {
	dir := seedTargetDir(t)
	f := NewIOFilter(dir)

	keep := filepath.Join(dir, "keep.strm")
	f.Sweep(map[string]bool{keep: true})

	_, err := os.Stat(keep)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "old.strm"))
	assert.True(t, os.IsNotExist(err))
}

func TestBloomFilterSweepRemovesStaleOnly(t *testing.T) {
	dir := seedTargetDir(t)
	f := NewBloomFilter(dir)

	keep := filepath.Join(dir, "keep.strm")
	assert.True(t, f.Contains(keep))

	f.Sweep(map[string]bool{keep: true})

	_, err := os.Stat(keep)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "old.strm"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewGCFilterSelectsVariantByMode(t *testing.T) {
	dir := t.TempDir()

	_, ok := NewGCFilter("set", dir).(*SetFilter)
	assert.True(t, ok)
	_, ok = NewGCFilter("io", dir).(*IOFilter)
	assert.True(t, ok)
	_, ok = NewGCFilter("bf", dir).(*BloomFilter)
	assert.True(t, ok)
}
