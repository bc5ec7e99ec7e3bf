// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vtrace

import (
	vk "github.com/goki/vulkan"
)

// CmdPool is a command pool with one primary command buffer,
// used for one-off transfer submissions.
type CmdPool struct {
	Pool vk.CommandPool
	Buff vk.CommandBuffer
}

// ConfigTransient configures the pool on given device for
// short-lived one-time-submit buffers (transfers).
func (cp *CmdPool) ConfigTransient(dv *Device) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}, nil, &pool)
	IfPanic(NewError(ret))
	cp.Pool = pool
}

// ConfigResettable configures the pool on given device for buffers
// that are re-recorded every frame.
func (cp *CmdPool) ConfigResettable(dv *Device) {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(dv.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: dv.QueueIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &pool)
	IfPanic(NewError(ret))
	cp.Pool = pool
}

// NewBuffer allocates a new primary command buffer from the pool,
// sets it as Buff, and returns it.
func (cp *CmdPool) NewBuffer(dv *Device) vk.CommandBuffer {
	cmdBuff := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(dv.Device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        cp.Pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, cmdBuff)
	IfPanic(NewError(ret))
	cp.Buff = cmdBuff[0]
	return cp.Buff
}

// BeginCmdOneTime does BeginCommandBuffer with the OneTimeSubmit
// flag on the pool's Buff, allocating it if needed.
func (cp *CmdPool) BeginCmdOneTime(dv *Device) vk.CommandBuffer {
	if cp.Buff == nil {
		cp.NewBuffer(dv)
	}
	CmdBeginOneTime(cp.Buff)
	return cp.Buff
}

// EndSubmitWaitFree ends the current Buff, submits it to the device
// queue, waits for the queue to finish, then frees the buffer.
func (cp *CmdPool) EndSubmitWaitFree(dv *Device) {
	CmdEnd(cp.Buff)
	CmdSubmitWait(cp.Buff, dv)
	vk.FreeCommandBuffers(dv.Device, cp.Pool, 1, []vk.CommandBuffer{cp.Buff})
	cp.Buff = nil
}

// Destroy destroys the pool and any allocated buffer.
func (cp *CmdPool) Destroy(dev vk.Device) {
	if cp.Pool == vk.NullCommandPool {
		return
	}
	vk.DestroyCommandPool(dev, cp.Pool, nil)
	cp.Pool = vk.NullCommandPool
	cp.Buff = nil
}

// CmdBegin does BeginCommandBuffer on given command buffer.
func CmdBegin(cmd vk.CommandBuffer) {
	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	})
	IfPanic(NewError(ret))
}

// CmdBeginOneTime does BeginCommandBuffer with the OneTimeSubmit flag.
func CmdBeginOneTime(cmd vk.CommandBuffer) {
	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	IfPanic(NewError(ret))
}

// CmdEnd does EndCommandBuffer on given command buffer.
func CmdEnd(cmd vk.CommandBuffer) {
	ret := vk.EndCommandBuffer(cmd)
	IfPanic(NewError(ret))
}

// CmdResetBegin resets the command buffer and begins recording.
func CmdResetBegin(cmd vk.CommandBuffer) {
	vk.ResetCommandBuffer(cmd, 0)
	CmdBegin(cmd)
}

// CmdSubmit submits given command buffer to given device queue,
// without any waiting.
func CmdSubmit(cmd vk.CommandBuffer, dv *Device) {
	ret := vk.QueueSubmit(dv.Queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd},
	}}, vk.NullFence)
	IfPanic(NewError(ret))
}

// CmdSubmitWait submits given command buffer to given device queue
// and waits for the queue to become idle.
func CmdSubmitWait(cmd vk.CommandBuffer, dv *Device) {
	CmdSubmit(cmd, dv)
	CmdWait(dv)
}

// CmdWait waits for the device queue to become idle.
func CmdWait(dv *Device) {
	vk.QueueWaitIdle(dv.Queue)
}
