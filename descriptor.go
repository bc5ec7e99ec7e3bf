// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	vk "github.com/goki/vulkan"
)

// Ray-tracing pipeline shader stage bits, per VK_KHR_ray_tracing_pipeline.
// Named here so every stage mask in the package is auditable in one place.
const (
	ShaderStageRaygenBit     vk.ShaderStageFlagBits = 0x00000100
	ShaderStageAnyHitBit     vk.ShaderStageFlagBits = 0x00000200
	ShaderStageClosestHitBit vk.ShaderStageFlagBits = 0x00000400
)

// GBufferBinding is the binding index of the geometry buffer within
// its own descriptor set, which is always appended last after the
// caller's shared sets.
const GBufferBinding = 0

// GBufferStages is the full set of stages that read or write the
// geometry buffer: the compute dispatch itself, the ray-tracing
// stages of the hybrid pipeline, and the final fragment resolve.
const GBufferStages = vk.ShaderStageComputeBit | vk.ShaderStageFragmentBit |
	ShaderStageRaygenBit | ShaderStageAnyHitBit | ShaderStageClosestHitBit

// GBufferBindings owns the descriptor pool, set layout, and the one
// descriptor set exposing the geometry buffer to shaders.
type GBufferBindings struct {
	VkDescPool vk.DescriptorPool
	VkLayout   vk.DescriptorSetLayout
	VkDescSet  vk.DescriptorSet
}

// Config creates the pool, layout, and set on given device.
// The layout has a single storage-buffer binding at GBufferBinding,
// visible to GBufferStages.
func (bd *GBufferBindings) Config(dev vk.Device) {
	var pool vk.DescriptorPool
	ret := vk.CreateDescriptorPool(dev, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
		}},
	}, nil, &pool)
	IfPanic(NewError(ret))
	bd.VkDescPool = pool

	var layout vk.DescriptorSetLayout
	ret = vk.CreateDescriptorSetLayout(dev, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         GBufferBinding,
			DescriptorType:  vk.DescriptorTypeStorageBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(GBufferStages),
		}},
	}, nil, &layout)
	IfPanic(NewError(ret))
	bd.VkLayout = layout

	var set vk.DescriptorSet
	ret = vk.AllocateDescriptorSets(dev, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     bd.VkDescPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{bd.VkLayout},
	}, &set)
	IfPanic(NewError(ret))
	bd.VkDescSet = set
}

// Update points the descriptor set at given buffer, over its whole
// range.  Must be called after Config and again whenever the buffer
// is reallocated.
func (bd *GBufferBindings) Update(dev vk.Device, buff vk.Buffer) {
	vk.UpdateDescriptorSets(dev, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          bd.VkDescSet,
		DstBinding:      GBufferBinding,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeStorageBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: buff,
			Offset: 0,
			Range:  vk.DeviceSize(vk.WholeSize),
		}},
	}}, 0, nil)
}

// Destroy destroys the pool (freeing the set with it), then the
// layout.  Idempotent.
func (bd *GBufferBindings) Destroy(dev vk.Device) {
	if bd.VkDescPool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(dev, bd.VkDescPool, nil)
		bd.VkDescPool = vk.NullDescriptorPool
		bd.VkDescSet = vk.NullDescriptorSet
	}
	if bd.VkLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(dev, bd.VkLayout, nil)
		bd.VkLayout = vk.NullDescriptorSetLayout
	}
}
