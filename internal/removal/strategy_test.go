// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package removal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpplugins/core/internal/domain"
)

const gib = int64(1 << 30)

func TestFreeSpaceDecisionsRemovesSmallestUntilTargetMet(t *testing.T) {
	cfg := domain.RemovalConfig{StrategyAction: domain.StrategyActionSmallSeeds}
	sorted := sortForStrategy([]domain.TorrentView{
		{ID: "a", Size: 10 * gib},
		{ID: "b", Size: 20 * gib},
		{ID: "c", Size: 30 * gib},
		{ID: "d", Size: 50 * gib},
	}, cfg.StrategyAction)

	decisions := FreeSpaceDecisions(sorted, nil, cfg, 80*gib, 100)
	removed := runDecisionStream(decisions, false)

	var ids []string
	for _, r := range removed {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestFreeSpaceDecisionsReturnsEmptyWhenAlreadyAboveTarget(t *testing.T) {
	cfg := domain.RemovalConfig{StrategyAction: domain.StrategyActionSmallSeeds}
	decisions := FreeSpaceDecisions(nil, nil, cfg, 200*gib, 100)
	assert.Empty(t, decisions)
}

func TestMaximumCountDecisionsRemovesOldest(t *testing.T) {
	cfg := domain.RemovalConfig{StrategyAction: domain.StrategyActionOldSeeds}
	sorted := sortForStrategy([]domain.TorrentView{
		{ID: "t1", SeedingTimeS: 100},
		{ID: "t2", SeedingTimeS: 500},
		{ID: "t3", SeedingTimeS: 300},
		{ID: "t4", SeedingTimeS: 900},
		{ID: "t5", SeedingTimeS: 50},
	}, cfg.StrategyAction)

	decisions := MaximumCountDecisions(sorted, nil, cfg, 3)
	removed := runDecisionStream(decisions, false)

	var ids []string
	for _, r := range removed {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"t4", "t2"}, ids)
}

func TestMaximumSizeDecisionsRemovesUntilUnderTarget(t *testing.T) {
	cfg := domain.RemovalConfig{StrategyAction: domain.StrategyActionSmallSeeds}
	sorted := sortForStrategy([]domain.TorrentView{
		{ID: "a", Size: 10 * gib},
		{ID: "b", Size: 20 * gib},
		{ID: "c", Size: 30 * gib},
	}, cfg.StrategyAction)

	decisions := MaximumSizeDecisions(sorted, nil, cfg, 40)
	removed := runDecisionStream(decisions, false)
	assert.Len(t, removed, 2)
}

func TestExpandCrossSeedsUnionsSiblings(t *testing.T) {
	visited := []domain.TorrentView{
		{ID: "a", Name: "Show.S01", Size: 10 * gib},
		{ID: "b", Name: "Show.S01", Size: 10 * gib},
		{ID: "c", Name: "Other", Size: 5 * gib},
	}
	selected := []domain.TorrentView{visited[0]}

	expanded := ExpandCrossSeeds(visited, selected)
	var ids []string
	for _, e := range expanded {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}
