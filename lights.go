// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/chewxy/math32"
	"goki.dev/glop/indent"
	"goki.dev/mat32/v2"
)

// LightTypes are the punctual light types, matching the glTF
// punctual light extension.
type LightTypes int32

const (
	LightDirectional LightTypes = iota
	LightPoint
	LightSpot
	LightTriangle

	LightTypesN
)

var lightTypeNames = [LightTypesN]string{
	"Directional", "Point", "Spot", "Triangle",
}

func (lt LightTypes) String() string {
	if lt < 0 || lt >= LightTypesN {
		return fmt.Sprintf("LightTypes(%d)", int32(lt))
	}
	return lightTypeNames[lt]
}

// ImptSamp is one alias-table entry for O(1) importance sampling of
// a discrete light distribution.  A uniform draw lands on some entry
// i; with probability Q it selects i, otherwise Alias.  Pdf and
// AliasPdf are the selection probabilities of i and Alias, for
// multiple importance sampling weights in the shader.
type ImptSamp struct {
	Alias    int32
	Q        float32
	Pdf      float32
	AliasPdf float32
}

// PuncLight is one punctual (directional, point, or spot) light,
// in shader layout: 20 scalars of 4 bytes, 80 bytes total.
type PuncLight struct {

	// light type: LightDirectional, LightPoint, or LightSpot
	Type LightTypes

	// direction the light points, for directional and spot
	Direction mat32.Vec3

	// radiometric intensity scale
	Intensity float32

	// light color
	Color mat32.Vec3

	// world-space position, for point and spot
	Position mat32.Vec3

	// attenuation range (0 = unlimited)
	Range float32

	// spot cone cosines
	OuterConeCos float32
	InnerConeCos float32

	// explicit pad to a 16-byte boundary before ImpSamp
	Padding mat32.Vec2

	// importance-sampling entry, filled by BuildLightSet
	ImpSamp ImptSamp
}

// TrigLight is one emissive triangle light, in shader layout:
// 24 scalars of 4 bytes, 96 bytes total.
type TrigLight struct {

	// emissive material of the triangle
	MatIndex uint32

	// instance transform used to place the triangle
	TransformIndex uint32

	// object-space vertex positions
	V0 mat32.Vec3
	V1 mat32.Vec3
	V2 mat32.Vec3

	// vertex texture coordinates, for textured emission
	UV0 mat32.Vec2
	UV1 mat32.Vec2
	UV2 mat32.Vec2

	// importance-sampling entry, filled by BuildLightSet
	ImpSamp ImptSamp

	// explicit pad to a 96-byte stride
	Pad mat32.Vec3
}

// LightSetInfo is the shader-side header describing the light set:
// 16 bytes.
type LightSetInfo struct {

	// number of punctual lights
	PuncLightCount uint32

	// number of triangle lights
	TrigLightCount uint32

	// probability of sampling the triangle set vs. the punctual set
	TrigSampProb float32

	Pad int32
}

// Byte sizes of the shader-layout light records.
const (
	ImptSampSize     = int(unsafe.Sizeof(ImptSamp{}))
	PuncLightSize    = int(unsafe.Sizeof(PuncLight{}))
	TrigLightSize    = int(unsafe.Sizeof(TrigLight{}))
	LightSetInfoSize = int(unsafe.Sizeof(LightSetInfo{}))
)

// Luminance returns the Rec. 709 relative luminance of given color.
func Luminance(color mat32.Vec3) float32 {
	return 0.212671*color.X + 0.71516*color.Y + 0.072169*color.Z
}

// Power returns the sampling weight of the light: its intensity
// scaled by the luminance of its color.
func (pl *PuncLight) Power() float32 {
	return math32.Max(pl.Intensity*Luminance(pl.Color), 0)
}

// Area returns the world-independent area of the triangle.
func (tl *TrigLight) Area() float32 {
	e1 := tl.V1.Sub(tl.V0)
	e2 := tl.V2.Sub(tl.V0)
	return 0.5 * e1.Cross(e2).Length()
}

// LightSet is the complete host-side light description: the light
// lists with their alias tables filled in, plus the header.
// Build with BuildLightSet, then upload with LightBuffers.Upload.
type LightSet struct {
	Punc []PuncLight
	Trig []TrigLight
	Info LightSetInfo
}

// BuildLightSet builds the alias tables over given per-light
// sampling weights, writes them into the ImpSamp field of each
// light, and fills in the header, including the probability of
// sampling the triangle set, from the summed weights of each class.
// puncWeights and trigWeights must match the light slices in length;
// pass nil weights to use PuncLight.Power and TrigLight.Area.
func BuildLightSet(punc []PuncLight, puncWeights []float32, trig []TrigLight, trigWeights []float32) *LightSet {
	ls := &LightSet{Punc: punc, Trig: trig}
	if puncWeights == nil {
		puncWeights = make([]float32, len(punc))
		for i := range punc {
			puncWeights[i] = punc[i].Power()
		}
	}
	if trigWeights == nil {
		trigWeights = make([]float32, len(trig))
		for i := range trig {
			trigWeights[i] = trig[i].Area()
		}
	}
	pt := BuildAliasTable(puncWeights)
	for i := range punc {
		punc[i].ImpSamp = pt[i]
	}
	tt := BuildAliasTable(trigWeights)
	for i := range trig {
		trig[i].ImpSamp = tt[i]
	}
	var puncPower, trigPower float32
	for _, w := range puncWeights {
		puncPower += w
	}
	for _, w := range trigWeights {
		trigPower += w
	}
	ls.Info.PuncLightCount = uint32(len(punc))
	ls.Info.TrigLightCount = uint32(len(trig))
	ls.Info.TrigSampProb = TrigSampProb(puncPower, trigPower)
	return ls
}

// StringDoc returns an indented summary of the light set.
func (ls *LightSet) StringDoc(level int) string {
	ispc := 2
	var sb strings.Builder
	sb.WriteString(indent.Spaces(level, ispc))
	fmt.Fprintf(&sb, "LightSet: %d punctual, %d triangle, trig prob %g\n",
		ls.Info.PuncLightCount, ls.Info.TrigLightCount, ls.Info.TrigSampProb)
	for i := range ls.Punc {
		pl := &ls.Punc[i]
		sb.WriteString(indent.Spaces(level+1, ispc))
		fmt.Fprintf(&sb, "%d: %s pow %g pdf %g\n", i, pl.Type, pl.Power(), pl.ImpSamp.Pdf)
	}
	for i := range ls.Trig {
		tl := &ls.Trig[i]
		sb.WriteString(indent.Spaces(level+1, ispc))
		fmt.Fprintf(&sb, "%d: Triangle mat %d area %g pdf %g\n", i, tl.MatIndex, tl.Area(), tl.ImpSamp.Pdf)
	}
	return sb.String()
}
