// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import (
	"sort"

	"github.com/mpplugins/core/internal/domain"
)

// decision is one step of a strategy walk: should this view be removed, and
// should the walk stop after it (spec.md §4.1.2, §9 "Strategy executor").
type decision struct {
	view         domain.TorrentView
	shouldRemove bool
	shouldBreak  bool
}

// sortForStrategy orders torrents by the key the configured strategy_action
// names (spec.md §4.1.2).
func sortForStrategy(views []domain.TorrentView, action domain.StrategyAction) []domain.TorrentView {
	sorted := make([]domain.TorrentView, len(views))
	copy(sorted, views)

	switch action {
	case domain.StrategyActionOldSeeds:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SeedingTimeS > sorted[j].SeedingTimeS })
	case domain.StrategyActionSmallSeeds:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Size < sorted[j].Size })
	case domain.StrategyActionInactiveSeeds:
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AvgUpspeed < sorted[j].AvgUpspeed })
	}
	return sorted
}

// passesFilters applies the condition filter (when strategy_pre_filter_by_condition)
// and the complete-only gate, shared by every strategy walk.
func passesFilters(preds []predicate, cfg domain.RemovalConfig, t domain.TorrentView) bool {
	if cfg.CompleteOnly && t.Progress < 1 {
		return false
	}
	if cfg.StrategyPreFilterByCondition && !Evaluate(preds, cfg.Connection, t) {
		return false
	}
	return true
}

// runDecisionStream walks decisions in order, collecting removed views and
// stopping at the first shouldBreak unless samedata cross-seed expansion
// requires a full walk to find every sibling (spec.md §4.1.2, §9).
func runDecisionStream(decisions []decision, sameData bool) []domain.TorrentView {
	var removed []domain.TorrentView
	for _, d := range decisions {
		if d.shouldRemove {
			removed = append(removed, d.view)
		}
		if d.shouldBreak && !sameData {
			break
		}
	}
	return removed
}

// FreeSpaceDecisions builds the decision stream for the freespace strategy
// (spec.md §4.1.2). free is the current disk_free(freespace_detect_path)
// reading; targetGB is strategy_value.
func FreeSpaceDecisions(sorted []domain.TorrentView, preds []predicate, cfg domain.RemovalConfig, free int64, targetGB float64) []decision {
	const gib = 1 << 30
	target := int64(targetGB * gib)

	effectiveFree := free
	if cfg.PreRelease {
		var offset int64
		for _, t := range sorted {
			if t.Progress >= 1 {
				continue
			}
			if !Evaluate(preds, cfg.Connection, t) {
				continue
			}
			offset += int64(float64(t.Size) * (1 - t.Progress))
		}
		effectiveFree -= offset
	}

	if effectiveFree >= target {
		return nil
	}
	need := target - effectiveFree

	decisions := make([]decision, 0, len(sorted))
	for _, t := range sorted {
		if need <= 0 {
			decisions = append(decisions, decision{view: t})
			continue
		}
		if !passesFilters(preds, cfg, t) {
			decisions = append(decisions, decision{view: t})
			continue
		}
		need -= t.Size
		decisions = append(decisions, decision{view: t, shouldRemove: true, shouldBreak: need <= 0})
	}
	return decisions
}

// MaximumCountDecisions builds the decision stream for maximum_count_seeds.
func MaximumCountDecisions(sorted []domain.TorrentView, preds []predicate, cfg domain.RemovalConfig, targetCount int) []decision {
	if len(sorted) <= targetCount {
		return nil
	}
	k := len(sorted) - targetCount

	decisions := make([]decision, 0, len(sorted))
	removedSoFar := 0
	for _, t := range sorted {
		if removedSoFar >= k || !passesFilters(preds, cfg, t) {
			decisions = append(decisions, decision{view: t})
			continue
		}
		removedSoFar++
		decisions = append(decisions, decision{view: t, shouldRemove: true, shouldBreak: removedSoFar >= k})
	}
	return decisions
}

// MaximumSizeDecisions builds the decision stream for maximum_size_seeds.
func MaximumSizeDecisions(sorted []domain.TorrentView, preds []predicate, cfg domain.RemovalConfig, targetGB float64) []decision {
	const gib = 1 << 30
	var total int64
	for _, t := range sorted {
		total += t.Size
	}
	target := int64(targetGB * gib)
	if total <= target {
		return nil
	}
	need := total - target

	decisions := make([]decision, 0, len(sorted))
	for _, t := range sorted {
		if need <= 0 || !passesFilters(preds, cfg, t) {
			decisions = append(decisions, decision{view: t})
			continue
		}
		need -= t.Size
		decisions = append(decisions, decision{view: t, shouldRemove: true, shouldBreak: need <= 0})
	}
	return decisions
}

// ExpandCrossSeeds unions in every sibling sharing a (name, size) content
// key with an already-selected torrent (spec.md §4.1.2 "samedata", §9
// "Cross-seed expansion as a second pass").
func ExpandCrossSeeds(visited []domain.TorrentView, selected []domain.TorrentView) []domain.TorrentView {
	byKey := make(map[domain.ContentKey][]domain.TorrentView)
	for _, t := range visited {
		key := t.ContentKey()
		byKey[key] = append(byKey[key], t)
	}

	selectedIDs := make(map[string]bool, len(selected))
	out := make([]domain.TorrentView, 0, len(selected))
	for _, t := range selected {
		if !selectedIDs[t.ID] {
			selectedIDs[t.ID] = true
			out = append(out, t)
		}
	}

	for _, t := range selected {
		for _, sibling := range byKey[t.ContentKey()] {
			if !selectedIDs[sibling.ID] {
				selectedIDs[sibling.ID] = true
				out = append(out, sibling)
			}
		}
	}
	return out
}
