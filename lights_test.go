// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"goki.dev/mat32/v2"
)

func TestLightLayouts(t *testing.T) {
	assert.Equal(t, 16, ImptSampSize)
	assert.Equal(t, 80, PuncLightSize)
	assert.Equal(t, 96, TrigLightSize)
	assert.Equal(t, 16, LightSetInfoSize)

	var pl PuncLight
	assert.Equal(t, uintptr(0), unsafe.Offsetof(pl.Type))
	assert.Equal(t, uintptr(4), unsafe.Offsetof(pl.Direction))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(pl.Intensity))
	assert.Equal(t, uintptr(20), unsafe.Offsetof(pl.Color))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(pl.Position))
	assert.Equal(t, uintptr(44), unsafe.Offsetof(pl.Range))
	assert.Equal(t, uintptr(56), unsafe.Offsetof(pl.Padding))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(pl.ImpSamp))

	var tl TrigLight
	assert.Equal(t, uintptr(8), unsafe.Offsetof(tl.V0))
	assert.Equal(t, uintptr(44), unsafe.Offsetof(tl.UV0))
	assert.Equal(t, uintptr(68), unsafe.Offsetof(tl.ImpSamp))
	assert.Equal(t, uintptr(84), unsafe.Offsetof(tl.Pad))
}

func TestLuminance(t *testing.T) {
	assert.InDelta(t, 1.0, Luminance(mat32.Vec3{X: 1, Y: 1, Z: 1}), 1e-4)
	assert.InDelta(t, 0.71516, Luminance(mat32.Vec3{X: 0, Y: 1, Z: 0}), 1e-6)
	assert.Equal(t, float32(0), Luminance(mat32.Vec3{X: 0, Y: 0, Z: 0}))
}

func TestPuncLightPower(t *testing.T) {
	pl := PuncLight{Type: LightPoint, Intensity: 2, Color: mat32.Vec3{X: 1, Y: 1, Z: 1}}
	assert.InDelta(t, 2.0, pl.Power(), 1e-4)

	// negative intensity clamps to zero weight
	pl.Intensity = -1
	assert.Equal(t, float32(0), pl.Power())
}

func TestTrigLightArea(t *testing.T) {
	tl := TrigLight{
		V0: mat32.Vec3{X: 0, Y: 0, Z: 0},
		V1: mat32.Vec3{X: 2, Y: 0, Z: 0},
		V2: mat32.Vec3{X: 0, Y: 2, Z: 0},
	}
	assert.InDelta(t, 2.0, tl.Area(), 1e-6)

	// degenerate triangle has zero area
	tl.V2 = mat32.Vec3{X: 4, Y: 0, Z: 0}
	assert.Equal(t, float32(0), tl.Area())
}

func TestBuildLightSet(t *testing.T) {
	punc := []PuncLight{
		{Type: LightPoint, Intensity: 1, Color: mat32.Vec3{X: 1, Y: 1, Z: 1}},
		{Type: LightSpot, Intensity: 3, Color: mat32.Vec3{X: 1, Y: 1, Z: 1}},
	}
	trig := []TrigLight{
		{V0: mat32.Vec3{X: 0, Y: 0, Z: 0}, V1: mat32.Vec3{X: 1, Y: 0, Z: 0}, V2: mat32.Vec3{X: 0, Y: 1, Z: 0}},
	}
	ls := BuildLightSet(punc, nil, trig, nil)
	assert.Equal(t, uint32(2), ls.Info.PuncLightCount)
	assert.Equal(t, uint32(1), ls.Info.TrigLightCount)
	assert.Greater(t, ls.Info.TrigSampProb, float32(0))
	assert.Less(t, ls.Info.TrigSampProb, float32(1))

	// alias entries written in place, pdfs proportional to power
	assert.InDelta(t, 0.25, punc[0].ImpSamp.Pdf, 1e-4)
	assert.InDelta(t, 0.75, punc[1].ImpSamp.Pdf, 1e-4)
	assert.InDelta(t, 1.0, trig[0].ImpSamp.Pdf, 1e-6)

	doc := ls.StringDoc(0)
	assert.True(t, strings.Contains(doc, "2 punctual"))
	assert.True(t, strings.Contains(doc, "Spot"))
}

func TestBuildLightSetEmpty(t *testing.T) {
	ls := BuildLightSet(nil, nil, nil, nil)
	assert.Equal(t, uint32(0), ls.Info.PuncLightCount)
	assert.Equal(t, uint32(0), ls.Info.TrigLightCount)
	assert.Equal(t, float32(0), ls.Info.TrigSampProb)
}

func TestLightTypesString(t *testing.T) {
	assert.Equal(t, "Point", LightPoint.String())
	assert.Equal(t, "Triangle", LightTriangle.String())
	assert.Equal(t, "LightTypes(9)", LightTypes(9).String())
}
