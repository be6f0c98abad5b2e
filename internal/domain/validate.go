// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrConfigInvalid is the sentinel wrapped by every validation failure,
// so callers can detect the ConfigInvalid error kind (spec.md §7)
// with errors.Is.
var ErrConfigInvalid = fmt.Errorf("config invalid")

// Validate checks the RemovalConfig invariants from spec.md §3: size
// range a<=b (or a single value), strategy_value >= 0, connection and
// action enums.
func (c RemovalConfig) Validate() error {
	if c.Size != "" {
		a, b, err := ParseSizeRange(c.Size)
		if err != nil {
			return fmt.Errorf("%w: size: %w", ErrConfigInvalid, err)
		}
		if a > b {
			return fmt.Errorf("%w: size: lower bound %d exceeds upper bound %d", ErrConfigInvalid, a, b)
		}
	}
	if c.RemoveMode == RemoveModeStrategy && c.StrategyValue < 0 {
		return fmt.Errorf("%w: strategy_value must be >= 0, got %v", ErrConfigInvalid, c.StrategyValue)
	}
	switch c.Connection {
	case "", ConnectionAnd, ConnectionOr:
	default:
		return fmt.Errorf("%w: connection must be \"and\" or \"or\", got %q", ErrConfigInvalid, c.Connection)
	}
	switch c.Action {
	case ActionPause, ActionDelete, ActionDeleteFile:
	default:
		return fmt.Errorf("%w: action must be pause, delete or deletefile, got %q", ErrConfigInvalid, c.Action)
	}
	if c.RemoveMode == RemoveModeStrategy {
		switch c.Strategy {
		case StrategyFreeSpace, StrategyMaximumCountSeeds, StrategyMaximumSizeSeeds:
		default:
			return fmt.Errorf("%w: unknown strategy %q", ErrConfigInvalid, c.Strategy)
		}
	}
	return nil
}

// ParseSizeRange parses the "size" field: a single GiB value "a" or a
// range "a-b" (spec.md §4.1.2 size predicate). Bounds are returned in
// bytes.
func ParseSizeRange(s string) (lowBytes, highBytes int64, err error) {
	const gib = 1 << 30
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty size")
	}
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		aStr, bStr := s[:idx], s[idx+1:]
		a, err := strconv.ParseFloat(strings.TrimSpace(aStr), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid lower bound %q: %w", aStr, err)
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(bStr), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid upper bound %q: %w", bStr, err)
		}
		if a == b {
			// Equal bounds degrade to unbounded "at least a" rather than
			// an exact-size match (matches the original's minsize==maxsize case).
			return int64(a * gib), 1<<62 - 1, nil
		}
		return int64(a * gib), int64(b * gib), nil
	}
	a, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	// Single value: the upper bound is unconstrained (spec.md: "else t.size >= a*2^30").
	return int64(a * gib), 1<<62 - 1, nil
}

// Validate checks MaterializerConfig invariants: max_depth is -1
// (unbounded) or a non-negative bound; worker counts are positive;
// traversal and filter modes are known enums.
func (c MaterializerConfig) Validate() error {
	if c.MaxDepth < -1 {
		return fmt.Errorf("%w: max_depth must be -1 or >= 0, got %d", ErrConfigInvalid, c.MaxDepth)
	}
	if c.MaxListWorker <= 0 {
		return fmt.Errorf("%w: max_list_worker must be > 0, got %d", ErrConfigInvalid, c.MaxListWorker)
	}
	if c.MaxDownloadWorker <= 0 {
		return fmt.Errorf("%w: max_download_worker must be > 0, got %d", ErrConfigInvalid, c.MaxDownloadWorker)
	}
	switch c.TraversalMode {
	case TraversalBFS, TraversalDFS:
	default:
		return fmt.Errorf("%w: traversal_mode must be bfs or dfs, got %q", ErrConfigInvalid, c.TraversalMode)
	}
	switch c.FilterMode {
	case FilterModeSet, FilterModeIO, FilterModeBloom:
	default:
		return fmt.Errorf("%w: filter_mode must be set, io or bf, got %q", ErrConfigInvalid, c.FilterMode)
	}
	return nil
}
