// Copyright (c) 2026, mpplugins contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package bloom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterContainsAfterAdd(t *testing.T) {
	f := New(100, 0.01)
	f.Add("/dst/a.strm")
	assert.True(t, f.Contains("/dst/a.strm"))
	assert.False(t, f.Contains("/dst/missing.strm"))
}

func TestFilterRemoveClearsMembership(t *testing.T) {
	f := New(100, 0.01)
	f.Add("/dst/a.strm")
	require := assert.New(t)
	require.True(f.Contains("/dst/a.strm"))

	f.Remove("/dst/a.strm")
	// A single-element layer's counters all return to zero, so contains
	// must report false once the only insertion is removed.
	assert.False(t, f.Contains("/dst/a.strm"))
}

func TestFilterGrowsNewLayerPastLoadFactor(t *testing.T) {
	f := New(4, 0.1)
	for i := 0; i < 20; i++ {
		f.Add(fmt.Sprintf("/dst/%d.strm", i))
	}
	assert.Greater(t, len(f.layers), 1)
	for i := 0; i < 20; i++ {
		assert.True(t, f.Contains(fmt.Sprintf("/dst/%d.strm", i)))
	}
}

func TestFilterNewLayerSizedFromAccumulatedCount(t *testing.T) {
	f := New(4, 0.1)
	for i := 0; i < 20; i++ {
		before := f.layers[len(f.layers)-1]
		beforeCount := before.count
		f.Add(fmt.Sprintf("/dst/%d.strm", i))
		if len(f.layers) > 1 && f.layers[len(f.layers)-2] == before {
			grown := f.layers[len(f.layers)-1]
			assert.Equal(t, beforeCount*2, grown.n, "new layer must be sized from the prior layer's accumulated count, not its configured capacity")
			return
		}
	}
	t.Fatal("filter never grew a second layer")
}
