// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"fmt"
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// GroupSize is the work-group edge length of the ray-query compute
// shader, in pixels.  Must match the shader's local_size declaration.
const GroupSize = 8

// RayQuery runs the ray-query path-trace pass: it owns the per-pixel
// geometry buffer, the descriptor set exposing it, and the compute
// pipeline, and records the per-frame dispatch.
//
// The caller's shared descriptor set layouts (scene, environment,
// output image) come first in the pipeline layout; RayQuery appends
// its own geometry-buffer set last, so shared set indices are stable
// across passes.
type RayQuery struct {
	GPU    *GPU
	Device Device

	// per-frame render parameters, pushed at every Run
	State RenderState

	// per-pixel geometry buffer
	GBuf GBuffer

	// descriptor bindings for GBuf
	Binds GBufferBindings

	// the compute pipeline
	Pipe RayPipeline
}

// Setup records the GPU and device and sets State defaults.
// Call before Create.
func (rq *RayQuery) Setup(gp *GPU, dv *Device) {
	rq.GPU = gp
	rq.Device = *dv
	rq.GBuf.GPU = gp
	rq.State.Defaults()
}

// Create allocates the geometry buffer for given extent, configures
// the descriptor bindings, and builds the compute pipeline from
// given SPIR-V code, with the geometry-buffer set layout appended
// after the caller's shared setLayouts.
func (rq *RayQuery) Create(size vk.Extent2D, setLayouts []vk.DescriptorSetLayout, code []byte) {
	if RenderStateSize > rq.GPU.MaxPushConstantsSize() {
		IfPanic(fmt.Errorf("vtrace: RenderState size %d exceeds device push-constant limit %d", RenderStateSize, rq.GPU.MaxPushConstantsSize()))
	}
	dev := rq.Device.Device
	rq.State.Size.X = int32(size.Width)
	rq.State.Size.Y = int32(size.Height)
	rq.GBuf.Alloc(dev, int(size.Width)*int(size.Height))
	rq.Binds.Config(dev)
	rq.Binds.Update(dev, rq.GBuf.Buff)

	layouts := make([]vk.DescriptorSetLayout, 0, len(setLayouts)+1)
	layouts = append(layouts, setLayouts...)
	layouts = append(layouts, rq.Binds.VkLayout)
	rq.Pipe.Config(dev, layouts, code)
	if Debug {
		log.Printf("vtrace: RayQuery created at %dx%d\n", size.Width, size.Height)
	}
}

// UpdateSize handles a render extent change: the geometry buffer
// grows if the new extent needs more pixels, in which case the
// descriptor is rewritten; shrinking keeps the existing allocation.
// The device must be idle.
func (rq *RayQuery) UpdateSize(size vk.Extent2D) {
	rq.State.Size.X = int32(size.Width)
	rq.State.Size.Y = int32(size.Height)
	if rq.GBuf.EnsureCapacity(rq.Device.Device, int(size.Width)*int(size.Height)) {
		rq.Binds.Update(rq.Device.Device, rq.GBuf.Buff)
	}
}

// Run records the ray-query dispatch into given command buffer,
// for given extent, with the geometry-buffer descriptor set appended
// after the caller's shared descSets.  The caller submits the buffer
// and owns synchronization with consumers of the geometry buffer.
func (rq *RayQuery) Run(cmd vk.CommandBuffer, size vk.Extent2D, descSets []vk.DescriptorSet) {
	sets := make([]vk.DescriptorSet, 0, len(descSets)+1)
	sets = append(sets, descSets...)
	sets = append(sets, rq.Binds.VkDescSet)

	vk.CmdBindPipeline(cmd, vk.PipelineBindPointCompute, rq.Pipe.VkPipeline)
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointCompute, rq.Pipe.VkLayout,
		0, uint32(len(sets)), sets, 0, nil)

	// must be a stack variable for cgo pointer rules
	st := rq.State
	vk.CmdPushConstants(cmd, rq.Pipe.VkLayout,
		vk.ShaderStageFlags(vk.ShaderStageComputeBit),
		0, uint32(RenderStateSize), unsafe.Pointer(&st))

	nx, ny := DispatchGrid(size)
	vk.CmdDispatch(cmd, uint32(nx), uint32(ny), 1)
}

// DispatchGrid returns the work-group grid dimensions covering given
// extent at GroupSize pixels per group edge, rounding up so partial
// edge tiles get a full group.
func DispatchGrid(size vk.Extent2D) (nx, ny int) {
	nx = (int(size.Width) + GroupSize - 1) / GroupSize
	ny = (int(size.Height) + GroupSize - 1) / GroupSize
	return
}

// Destroy destroys all owned resources: pipeline and layout first,
// then the descriptor pool and set layout, then the geometry buffer.
// Safe to call twice.  The device must be idle.
func (rq *RayQuery) Destroy() {
	dev := rq.Device.Device
	rq.Pipe.Destroy(dev)
	rq.Binds.Destroy(dev)
	rq.GBuf.Destroy(dev)
}
