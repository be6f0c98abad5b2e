// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package bloom implements a scalable counting Bloom filter (spec.md
// §4.2.5): a sequence of layers, each sized for a target error rate,
// appended as the element count grows past its load factor.
//
// The layer-growth and double-hashing scheme is not a drop-in for any
// off-the-shelf Bloom filter library (layer append thresholds, saturating
// 8-bit counters, and newest-first remove are specific to this filter's
// GC sweep semantics), so it is implemented directly against crypto/sha1
// and math rather than an imported filter package.
package bloom

import (
	"crypto/sha1"
	"encoding/binary"
	"math"
)

// layer is one fixed-capacity counting Bloom filter.
type layer struct {
	counters []uint8
	m        uint32 // position array size
	k        uint32 // hash count
	n        uint32 // expected element count this layer was sized for
	count    uint32 // elements added to this layer so far
}

func newLayer(n uint32, p float64) *layer {
	if n == 0 {
		n = 1
	}
	m := uint32(math.Ceil(-float64(n) * math.Log(p) / (math.Ln2 * math.Ln2)))
	if m == 0 {
		m = 1
	}
	k := uint32(math.Ceil((float64(m) / float64(n)) * math.Ln2))
	if k == 0 {
		k = 1
	}
	return &layer{
		counters: make([]uint8, m),
		m:        m,
		k:        k,
		n:        n,
	}
}

// probes returns the k probe indices for key (spec.md §4.2.5 double-hashing).
func (l *layer) probes(key string) []uint32 {
	sum := sha1.Sum([]byte(key))
	h1 := binary.BigEndian.Uint32(sum[0:4])
	h2 := binary.BigEndian.Uint32(sum[4:8])

	out := make([]uint32, l.k)
	for j := uint32(0); j < l.k; j++ {
		out[j] = (h1 + j*h2) % l.m
	}
	return out
}

func (l *layer) add(key string) {
	for _, idx := range l.probes(key) {
		if l.counters[idx] < 255 {
			l.counters[idx]++
		}
	}
	l.count++
}

func (l *layer) contains(key string) bool {
	for _, idx := range l.probes(key) {
		if l.counters[idx] == 0 {
			return false
		}
	}
	return true
}

// remove decrements this layer's counters for key. Caller must have
// confirmed contains(key) first.
func (l *layer) remove(key string) {
	for _, idx := range l.probes(key) {
		if l.counters[idx] > 0 && l.counters[idx] < 255 {
			l.counters[idx]--
		}
	}
}

func (l *layer) loadFactor() float64 {
	capacity := float64(l.m) / float64(l.k)
	return float64(l.count) / capacity
}

// Filter is a scalable counting Bloom filter (spec.md §4.2.5).
type Filter struct {
	layers     []*layer
	baseN      uint32
	remainingP float64
}

// New builds a filter whose first layer targets n elements at error rate p.
func New(n int, p float64) *Filter {
	f := &Filter{baseN: uint32(n), remainingP: p}
	f.layers = []*layer{newLayer(f.baseN, p/2)}
	f.remainingP = p / 2
	return f
}

// Add inserts key, appending a new layer first if the latest layer's load
// factor exceeds 0.75 (spec.md §4.2.5).
func (f *Filter) Add(key string) {
	latest := f.layers[len(f.layers)-1]
	if latest.loadFactor() > 0.75 {
		nextN := latest.count * 2
		nextP := f.remainingP / 2
		f.layers = append(f.layers, newLayer(nextN, nextP))
		f.remainingP = nextP
		latest = f.layers[len(f.layers)-1]
	}
	latest.add(key)
}

// Contains reports whether any layer shows key as present (spec.md §4.2.5).
func (f *Filter) Contains(key string) bool {
	for i := len(f.layers) - 1; i >= 0; i-- {
		if f.layers[i].contains(key) {
			return true
		}
	}
	return false
}

// Remove scans layers newest-first and decrements the first one in which
// key appears present (spec.md §4.2.5).
func (f *Filter) Remove(key string) {
	for i := len(f.layers) - 1; i >= 0; i-- {
		if f.layers[i].contains(key) {
			f.layers[i].remove(key)
			return
		}
	}
}
