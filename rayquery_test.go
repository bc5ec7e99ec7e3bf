// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
)

func TestDispatchGrid(t *testing.T) {
	tests := []struct {
		w, h   uint32
		nx, ny int
	}{
		{800, 600, 100, 75}, // exact multiples
		{801, 600, 101, 75}, // one pixel over rounds up a column
		{800, 601, 100, 76}, // and a row
		{1, 1, 1, 1},        // single pixel still gets a full group
		{7, 7, 1, 1},        // below one group
		{8, 8, 1, 1},        // exactly one group
		{9, 9, 2, 2},        // just past one group
		{1920, 1080, 240, 135},
		{0, 0, 0, 0}, // degenerate extent dispatches nothing
	}
	for _, tc := range tests {
		nx, ny := DispatchGrid(vk.Extent2D{Width: tc.w, Height: tc.h})
		assert.Equal(t, tc.nx, nx, "width %d", tc.w)
		assert.Equal(t, tc.ny, ny, "height %d", tc.h)
	}
}

// The grid must always cover the extent: nx*GroupSize >= width,
// and never over-cover by a full group.
func TestDispatchGridCoverage(t *testing.T) {
	for w := uint32(1); w <= 4*GroupSize; w++ {
		nx, _ := DispatchGrid(vk.Extent2D{Width: w, Height: 1})
		assert.GreaterOrEqual(t, nx*GroupSize, int(w))
		assert.Less(t, (nx-1)*GroupSize, int(w))
	}
}
