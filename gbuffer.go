// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"
	"goki.dev/mat32/v2"
)

// GeomEntry is the per-pixel geometry record written by the primary
// ray pass and read by subsequent shading passes.  Field order and
// types exactly match the shader-side struct: 16 scalars of 4 bytes
// each, 64 bytes total, no implicit padding.
type GeomEntry struct {

	// shading normal at the hit point
	Normal mat32.Vec3

	// tangent frame x axis
	Tangent mat32.Vec3

	// interpolated texture coordinate
	TexCoord mat32.Vec2

	// material index of the hit surface
	MatIndex uint32

	// world-space hit position
	Pos mat32.Vec3

	// interpolated vertex color
	VertColor mat32.Vec3

	// explicit pad to a 16-scalar stride
	Pad float32
}

// GeomEntrySize is the stride of one GeomEntry in bytes.
const GeomEntrySize = int(unsafe.Sizeof(GeomEntry{}))

// GBuffer is the device-local geometry buffer, at one GeomEntry per
// pixel.  It only ever grows: shrinking the render extent keeps the
// existing allocation, so resizing down is free and resizing back up
// to a previous extent does not reallocate.
type GBuffer struct {
	GPU *GPU

	// current capacity in pixels (GeomEntry records)
	N int

	// device-local storage buffer of N records
	Buff vk.Buffer
	Mem  vk.DeviceMemory
}

// Alloc allocates the buffer at given pixel capacity,
// freeing any existing allocation first.
func (gb *GBuffer) Alloc(dev vk.Device, pixels int) {
	gb.Destroy(dev)
	gb.N = pixels
	if pixels == 0 {
		return
	}
	sz := pixels * GeomEntrySize
	gb.Buff = NewBuffer(dev, sz, vk.BufferUsageStorageBufferBit)
	gb.Mem = AllocBuffMem(gb.GPU, dev, gb.Buff, vk.MemoryPropertyDeviceLocalBit)
	if Debug {
		log.Printf("vtrace: GBuffer allocated %d pixels, %d bytes\n", pixels, sz)
	}
}

// NeedsGrow returns true if given pixel count exceeds the current
// capacity, i.e., EnsureCapacity would reallocate.
func (gb *GBuffer) NeedsGrow(pixels int) bool {
	return pixels > gb.N
}

// EnsureCapacity reallocates the buffer if given pixel count exceeds
// the current capacity, returning true if it did, in which case any
// descriptor referring to the buffer must be rewritten.  The device
// must be idle: callers resize between frames, never mid-frame.
func (gb *GBuffer) EnsureCapacity(dev vk.Device, pixels int) bool {
	if !gb.NeedsGrow(pixels) {
		return false
	}
	gb.Alloc(dev, pixels)
	return true
}

// Destroy frees the buffer and memory and resets capacity to 0.
func (gb *GBuffer) Destroy(dev vk.Device) {
	FreeBuffMem(dev, &gb.Mem)
	DestroyBuffer(dev, &gb.Buff)
	gb.N = 0
}
