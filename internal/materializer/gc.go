// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package materializer

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/internal/materializer/bloom"
)

// GCFilter is a set-valued membership structure over local target paths
// (spec.md §3 "GCFilter", §4.2.4).
type GCFilter interface {
	Add(path string)
	Remove(path string)
	Contains(path string) bool
	Sweep(processed map[string]bool)
}

func isTrackedSuffix(path string) bool {
	if strings.HasSuffix(path, ".strm") {
		return true
	}
	for _, s := range domain.MediaSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	for _, s := range domain.SubtitleSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// scanTargetDir walks targetDir once, collecting tracked artifact paths
// (spec.md §4.2.4 "initialized by one-time scan").
func scanTargetDir(targetDir string) []string {
	var found []string
	_ = filepath.WalkDir(targetDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if isTrackedSuffix(path) {
			found = append(found, path)
		}
		return nil
	})
	return found
}

// SetFilter is the exact GCFilter variant: a hash set of local paths,
// seeded by one scan of target_dir (spec.md §4.2.4 "Set").
type SetFilter struct {
	mu    sync.Mutex
	paths map[string]bool
}

// NewSetFilter scans targetDir once and returns a populated SetFilter.
func NewSetFilter(targetDir string) *SetFilter {
	f := &SetFilter{paths: make(map[string]bool)}
	for _, p := range scanTargetDir(targetDir) {
		f.paths[p] = true
	}
	return f
}

func (f *SetFilter) Add(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths[path] = true
}

func (f *SetFilter) Remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.paths, path)
}

func (f *SetFilter) Contains(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paths[path]
}

// Sweep deletes filter ∖ processed (spec.md §4.2.4 "Set").
func (f *SetFilter) Sweep(processed map[string]bool) {
	f.mu.Lock()
	stale := make([]string, 0)
	for p := range f.paths {
		if !processed[p] {
			stale = append(stale, p)
		}
	}
	f.mu.Unlock()

	for _, p := range stale {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", p).Msg("materializer: gc remove failed")
			continue
		}
		f.Remove(p)
	}
	log.Info().Int("removed", len(stale)).Msg("materializer: gc sweep complete (set)")
}

// IOFilter is the stateless GCFilter variant: contains probes the
// filesystem directly, sweep walks target_dir (spec.md §4.2.4 "IO").
type IOFilter struct {
	targetDir string
}

// NewIOFilter returns an IOFilter rooted at targetDir.
func NewIOFilter(targetDir string) *IOFilter {
	return &IOFilter{targetDir: targetDir}
}

func (f *IOFilter) Add(path string) {}

func (f *IOFilter) Remove(path string) {
	_ = os.Remove(path)
}

func (f *IOFilter) Contains(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Sweep walks target_dir and deletes any tracked file not in processed
// (spec.md §4.2.4 "IO").
func (f *IOFilter) Sweep(processed map[string]bool) {
	removed := 0
	for _, p := range scanTargetDir(f.targetDir) {
		if processed[p] {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", p).Msg("materializer: gc remove failed")
			continue
		}
		removed++
	}
	log.Info().Int("removed", removed).Msg("materializer: gc sweep complete (io)")
}

// BloomFilter is the counting-Bloom GCFilter variant (spec.md §4.2.4
// "Bloom", §4.2.5). Its sweep walks target_dir the same way IOFilter
// does, since the filter itself cannot enumerate its members.
type BloomFilter struct {
	targetDir string
	mu        sync.Mutex
	filter    *bloom.Filter
}

// NewBloomFilter scans targetDir once, seeding a scalable counting Bloom
// filter sized for the scan's element count.
func NewBloomFilter(targetDir string) *BloomFilter {
	seed := scanTargetDir(targetDir)
	f := &BloomFilter{
		targetDir: targetDir,
		filter:    bloom.New(max(len(seed), 1), 0.01),
	}
	for _, p := range seed {
		f.filter.Add(p)
	}
	return f
}

func (f *BloomFilter) Add(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.Add(path)
}

func (f *BloomFilter) Remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter.Remove(path)
}

func (f *BloomFilter) Contains(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter.Contains(path)
}

// Sweep walks target_dir; for each scanned path not in processed, deletes
// the file and decrements the filter (spec.md §4.2.4 "Bloom").
func (f *BloomFilter) Sweep(processed map[string]bool) {
	removed := 0
	for _, p := range scanTargetDir(f.targetDir) {
		if processed[p] {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", p).Msg("materializer: gc remove failed")
			continue
		}
		f.Remove(p)
		removed++
	}
	log.Info().Int("removed", removed).Msg("materializer: gc sweep complete (bloom)")
}

// NewGCFilter builds the configured GCFilter variant (spec.md §4.2.4,
// filter_mode ∈ {set, io, bf}).
func NewGCFilter(mode domain.FilterMode, targetDir string) GCFilter {
	switch mode {
	case domain.FilterModeIO:
		return NewIOFilter(targetDir)
	case domain.FilterModeBloom:
		return NewBloomFilter(targetDir)
	default:
		return NewSetFilter(targetDir)
	}
}
