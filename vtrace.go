// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vtrace implements the per-frame GPU dispatch engine for a
// ray-query path tracer, along with the light importance-sampling
// data model that the dispatch consumes.
//
// The central type is RayQuery, which owns a device-local geometry
// buffer (one GeomEntry per pixel), the descriptor pool / layout / set
// that expose it to shaders, and a single compute pipeline driven by a
// RenderState push constant.  Every frame, RayQuery.Run records the
// bind + push + dispatch commands into a caller-provided command
// buffer; submission and synchronization remain with the caller.
//
// Light sampling is handled on the host by BuildLightSet, which turns
// punctual and emissive-triangle light lists into alias-method tables
// (ImptSamp records) that sample any discrete light distribution in
// O(1).  LightBuffers uploads the resulting tables to device-local
// storage buffers for shader-side direct-light sampling.
//
// Vulkan instance, surface, window and logical device creation all
// belong to the enclosing application: vtrace only records the
// physical device (GPU) and logical device (Device) handles it is
// given, and works within them.
package vtrace

import (
	vk "github.com/goki/vulkan"
)

// Debug is a global flag to turn on informational logging of
// vtrace operations.  No-op unless set prior to use.
var Debug = false

// GPU wraps the externally selected physical device, with its
// properties, limits, and memory properties cached and Deref'd,
// ready for direct field access.
type GPU struct {

	// physical device handle, selected by the enclosing application
	GPU vk.PhysicalDevice

	// properties of the physical device, including Limits
	GPUProps vk.PhysicalDeviceProperties

	// memory properties, needed for allocating buffer memory
	MemoryProps vk.PhysicalDeviceMemoryProperties

	// debug mode for this device -- also sets the global Debug flag
	Debug bool
}

// NewGPU returns a new GPU wrapping given physical device,
// with properties cached via Init.
func NewGPU(phys vk.PhysicalDevice, debug bool) *GPU {
	gp := &GPU{}
	gp.Init(phys, debug)
	return gp
}

// Init records the given externally selected physical device
// and caches its properties, limits, and memory properties.
func (gp *GPU) Init(phys vk.PhysicalDevice, debug bool) {
	gp.GPU = phys
	gp.Debug = debug
	if debug {
		Debug = true
	}
	vk.GetPhysicalDeviceProperties(gp.GPU, &gp.GPUProps)
	gp.GPUProps.Deref()
	gp.GPUProps.Limits.Deref()
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProps)
	gp.MemoryProps.Deref()
}

// MaxPushConstantsSize returns the push-constant byte budget of
// this device.  The Vulkan spec guarantees at least 128.
func (gp *GPU) MaxPushConstantsSize() int {
	return int(gp.GPUProps.Limits.MaxPushConstantsSize)
}

// MaxStorageBufferRange returns the maximum size in bytes of a
// single storage buffer binding on this device.
func (gp *GPU) MaxStorageBufferRange() int {
	return int(gp.GPUProps.Limits.MaxStorageBufferRange)
}
