// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"goki.dev/mat32/v2"
)

// DebugModes are the shader debug visualization modes,
// selected via RenderState.DebugMode.
type DebugModes int32

const (
	// DebugNone renders the full path-traced image
	DebugNone DebugModes = iota

	// DebugDirect shows direct lighting only
	DebugDirect

	// DebugIndirect shows indirect lighting only
	DebugIndirect

	DebugBaseColor
	DebugNormal
	DebugMetallic
	DebugEmissive
	DebugAlpha
	DebugRoughness
	DebugTexcoord
	DebugTangent

	// DebugHeatmap shows per-pixel cost between MinHeatmap and MaxHeatmap
	DebugHeatmap

	DebugModesN
)

var debugModeNames = [DebugModesN]string{
	"None", "Direct", "Indirect", "BaseColor", "Normal", "Metallic",
	"Emissive", "Alpha", "Roughness", "Texcoord", "Tangent", "Heatmap",
}

func (dm DebugModes) String() string {
	if dm < 0 || dm >= DebugModesN {
		return fmt.Sprintf("DebugModes(%d)", int32(dm))
	}
	return debugModeNames[dm]
}

// PBR shading models selected via RenderState.PbrMode.
const (
	PbrDisney int32 = 0
	PbrGltf   int32 = 1
)

// RenderState is the per-frame render parameter block, pushed as a
// push constant at the start of every dispatch.  Field order and
// types exactly match the shader-side declaration: all fields are
// 4-byte scalars or vectors thereof, so the in-memory layout has no
// padding and can be pushed directly.
type RenderState struct {

	// frame number since last camera move, for accumulation (0 = restart)
	Frame int32

	// maximum path depth (number of bounces)
	MaxDepth int32

	// samples per pixel per frame
	SPP int32

	// clamp threshold for firefly suppression (0 = off)
	FireflyClampThreshold float32

	// multiplier applied to the HDR environment contribution
	HdrMultiplier float32

	// debug visualization mode
	DebugMode DebugModes

	// PBR shading model: PbrDisney or PbrGltf
	PbrMode int32

	// probability of sampling the environment vs. analytic lights
	EnvironmentProb float32

	// render extent in pixels
	Size mat32.Vec2i

	// heatmap display range, in timestamp units
	MinHeatmap int32
	MaxHeatmap int32

	// wall-clock time seed for shader randomization
	Time uint32
}

// RenderStateSize is the push-constant size of RenderState in bytes.
const RenderStateSize = int(unsafe.Sizeof(RenderState{}))

// Defaults sets reasonable starting values.
func (rs *RenderState) Defaults() {
	rs.MaxDepth = 10
	rs.SPP = 1
	rs.HdrMultiplier = 1
	rs.EnvironmentProb = 0.5
	rs.MaxHeatmap = 65000
}

// MarshalBinary encodes the state in shader layout order,
// little-endian.
func (rs *RenderState) MarshalBinary() ([]byte, error) {
	b := make([]byte, RenderStateSize)
	le := binary.LittleEndian
	le.PutUint32(b[0:], uint32(rs.Frame))
	le.PutUint32(b[4:], uint32(rs.MaxDepth))
	le.PutUint32(b[8:], uint32(rs.SPP))
	le.PutUint32(b[12:], math.Float32bits(rs.FireflyClampThreshold))
	le.PutUint32(b[16:], math.Float32bits(rs.HdrMultiplier))
	le.PutUint32(b[20:], uint32(rs.DebugMode))
	le.PutUint32(b[24:], uint32(rs.PbrMode))
	le.PutUint32(b[28:], math.Float32bits(rs.EnvironmentProb))
	le.PutUint32(b[32:], uint32(rs.Size.X))
	le.PutUint32(b[36:], uint32(rs.Size.Y))
	le.PutUint32(b[40:], uint32(rs.MinHeatmap))
	le.PutUint32(b[44:], uint32(rs.MaxHeatmap))
	le.PutUint32(b[48:], rs.Time)
	return b, nil
}

// UnmarshalBinary decodes the state from shader layout order,
// little-endian.
func (rs *RenderState) UnmarshalBinary(b []byte) error {
	if len(b) < RenderStateSize {
		return fmt.Errorf("vtrace: RenderState.UnmarshalBinary: need %d bytes, have %d", RenderStateSize, len(b))
	}
	le := binary.LittleEndian
	rs.Frame = int32(le.Uint32(b[0:]))
	rs.MaxDepth = int32(le.Uint32(b[4:]))
	rs.SPP = int32(le.Uint32(b[8:]))
	rs.FireflyClampThreshold = math.Float32frombits(le.Uint32(b[12:]))
	rs.HdrMultiplier = math.Float32frombits(le.Uint32(b[16:]))
	rs.DebugMode = DebugModes(le.Uint32(b[20:]))
	rs.PbrMode = int32(le.Uint32(b[24:]))
	rs.EnvironmentProb = math.Float32frombits(le.Uint32(b[28:]))
	rs.Size.X = int32(le.Uint32(b[32:]))
	rs.Size.Y = int32(le.Uint32(b[36:]))
	rs.MinHeatmap = int32(le.Uint32(b[40:]))
	rs.MaxHeatmap = int32(le.Uint32(b[44:]))
	rs.Time = le.Uint32(b[48:])
	return nil
}
