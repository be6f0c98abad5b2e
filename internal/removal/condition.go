// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package removal implements the torrent removal engine (spec.md §4.1): a
// condition/strategy selector over backend.Adapter, cross-seed expansion,
// and sequential action dispatch.
package removal

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mpplugins/core/internal/domain"
)

// predicate is one enabled test against a TorrentView. Only enabled
// predicates participate in the connector (spec.md §4.1.2).
type predicate func(domain.TorrentView) bool

// BuildPredicates compiles the enabled predicates from cfg; a predicate is
// absent when its config field is empty, except the QB/TR-only ones which
// also require the matching dialect.
func BuildPredicates(cfg domain.RemovalConfig) ([]predicate, error) {
	var preds []predicate

	if cfg.Ratio != "" {
		ratio, err := strconv.ParseFloat(cfg.Ratio, 64)
		if err != nil {
			return nil, err
		}
		preds = append(preds, func(t domain.TorrentView) bool { return t.Ratio >= ratio })
	}

	if cfg.Time != "" {
		hours, err := strconv.ParseFloat(cfg.Time, 64)
		if err != nil {
			return nil, err
		}
		threshold := int64(hours * 3600)
		preds = append(preds, func(t domain.TorrentView) bool { return t.SeedingTimeS > threshold })
	}

	if cfg.Size != "" {
		low, high, err := domain.ParseSizeRange(cfg.Size)
		if err != nil {
			return nil, err
		}
		preds = append(preds, func(t domain.TorrentView) bool { return t.Size >= low && t.Size <= high })
	}

	if cfg.Upspeed != "" {
		kib, err := strconv.ParseFloat(cfg.Upspeed, 64)
		if err != nil {
			return nil, err
		}
		threshold := kib * 1024
		preds = append(preds, func(t domain.TorrentView) bool { return t.AvgUpspeed >= threshold })
	}

	if cfg.PathKeywords != "" {
		re, err := regexp.Compile("(?i)" + cfg.PathKeywords)
		if err != nil {
			return nil, err
		}
		preds = append(preds, func(t domain.TorrentView) bool { return re.MatchString(t.SavePath) })
	}

	if cfg.TrackerKeywords != "" {
		re, err := regexp.Compile("(?i)" + cfg.TrackerKeywords)
		if err != nil {
			return nil, err
		}
		preds = append(preds, func(t domain.TorrentView) bool {
			for _, tr := range t.Trackers {
				if re.MatchString(tr) {
					return true
				}
			}
			return false
		})
	}

	if cfg.TorrentStates != "" {
		states := splitCSV(cfg.TorrentStates)
		preds = append(preds, func(t domain.TorrentView) bool {
			return t.IsQB && contains(states, t.State)
		})
	}

	if cfg.TorrentCategorys != "" {
		cats := splitCSV(cfg.TorrentCategorys)
		preds = append(preds, func(t domain.TorrentView) bool {
			return t.IsQB && contains(cats, t.Category)
		})
	}

	if cfg.ErrorKeywords != "" {
		re, err := regexp.Compile("(?i)" + cfg.ErrorKeywords)
		if err != nil {
			return nil, err
		}
		preds = append(preds, func(t domain.TorrentView) bool {
			return !t.IsQB && re.MatchString(t.ErrorString)
		})
	}

	return preds, nil
}

// Evaluate applies the connector across preds: with zero predicates the
// result is the connector's identity (spec.md §9 open question, confirmed
// as intended: and -> true, or -> false).
func Evaluate(preds []predicate, connection domain.Connection, t domain.TorrentView) bool {
	if len(preds) == 0 {
		return connection != domain.ConnectionOr
	}
	switch connection {
	case domain.ConnectionOr:
		for _, p := range preds {
			if p(t) {
				return true
			}
		}
		return false
	default: // and
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// MatchesCondition is Evaluate plus the complateonly gate (spec.md §4.1.2).
func MatchesCondition(preds []predicate, cfg domain.RemovalConfig, t domain.TorrentView) bool {
	if cfg.CompleteOnly && t.Progress < 1 {
		return false
	}
	return Evaluate(preds, cfg.Connection, t)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
