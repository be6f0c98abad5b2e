// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package materializer

import (
	"path"
	"strings"
	"sync"

	"github.com/mpplugins/core/internal/domain"
	"github.com/mpplugins/core/pkg/pathcmp"
)

// TargetPath computes the local path a remote entry materializes to
// (spec.md §4.2.3): target_dir / (remote_path with source_dir prefix
// replaced by path_replace, leading slash stripped); media suffixes are
// rewritten to .strm. Pure in (remotePath, suffix) (spec.md §8 property 3).
func TargetPath(remotePath, suffix, sourceDir, pathReplace, targetDir string) string {
	rel := remotePath
	if idx := strings.Index(remotePath, sourceDir); idx == 0 {
		rel = pathReplace + remotePath[len(sourceDir):]
	}
	rel = strings.TrimPrefix(rel, "/")

	if isMediaSuffix(suffix) {
		rel = strings.TrimSuffix(rel, suffix) + ".strm"
	}

	return pathcmp.NormalizePath(path.Join(targetDir, rel))
}

func isMediaSuffix(suffix string) bool {
	for _, s := range domain.MediaSuffixes {
		if s == suffix {
			return true
		}
	}
	return false
}

func isSubtitleSuffix(suffix string) bool {
	for _, s := range domain.SubtitleSuffixes {
		if s == suffix {
			return true
		}
	}
	return false
}

// memoTargetPath caches TargetPath results keyed on its pure inputs
// (spec.md §4.2.3 "may be memoized"); a single materializer pass shares
// one cache since source/path_replace/target_dir are pass-constant.
type memoTargetPath struct {
	sourceDir   string
	pathReplace string
	targetDir   string

	mu    sync.Mutex
	cache map[string]string
}

func newMemoTargetPath(sourceDir, pathReplace, targetDir string) *memoTargetPath {
	return &memoTargetPath{
		sourceDir:   sourceDir,
		pathReplace: pathReplace,
		targetDir:   targetDir,
		cache:       make(map[string]string),
	}
}

func (m *memoTargetPath) compute(remotePath, suffix string) string {
	key := remotePath + "\x00" + suffix

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.cache[key]; ok {
		return v
	}
	v := TargetPath(remotePath, suffix, m.sourceDir, m.pathReplace, m.targetDir)
	m.cache[key] = v
	return v
}
