// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vtrace

import (
	"unsafe"

	vk "github.com/goki/vulkan"
)

// RayPipeline is the compute pipeline that runs the ray-query pass,
// together with its pipeline layout and cache.
type RayPipeline struct {
	VkLayout   vk.PipelineLayout
	VkPipeline vk.Pipeline
	VkCache    vk.PipelineCache
}

// Config creates the pipeline layout over given descriptor set
// layouts with a RenderState push-constant range on the compute
// stage, then compiles the compute pipeline from given SPIR-V code.
// The shader module is destroyed once the pipeline is built.
func (pl *RayPipeline) Config(dev vk.Device, setLayouts []vk.DescriptorSetLayout, code []byte) {
	var layout vk.PipelineLayout
	ret := vk.CreatePipelineLayout(dev, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(setLayouts)),
		PSetLayouts:            setLayouts,
		PushConstantRangeCount: 1,
		PPushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageComputeBit),
			Offset:     0,
			Size:       uint32(RenderStateSize),
		}},
	}, nil, &layout)
	IfPanic(NewError(ret))
	pl.VkLayout = layout

	var cache vk.PipelineCache
	ret = vk.CreatePipelineCache(dev, &vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}, nil, &cache)
	IfPanic(NewError(ret))
	pl.VkCache = cache

	mod := NewShaderModule(dev, code)
	var pipeline [1]vk.Pipeline
	ret = vk.CreateComputePipelines(dev, pl.VkCache, 1, []vk.ComputePipelineCreateInfo{{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Layout: pl.VkLayout,
		Stage: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageComputeBit,
			Module: mod,
			PName:  "main\x00",
		},
	}}, nil, pipeline[:])
	IfPanic(NewError(ret))
	pl.VkPipeline = pipeline[0]
	vk.DestroyShaderModule(dev, mod, nil)
}

// Destroy destroys the pipeline, cache, and layout.  Idempotent.
func (pl *RayPipeline) Destroy(dev vk.Device) {
	if pl.VkPipeline != vk.NullPipeline {
		vk.DestroyPipeline(dev, pl.VkPipeline, nil)
		pl.VkPipeline = vk.NullPipeline
	}
	if pl.VkCache != vk.NullPipelineCache {
		vk.DestroyPipelineCache(dev, pl.VkCache, nil)
		pl.VkCache = vk.NullPipelineCache
	}
	if pl.VkLayout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(dev, pl.VkLayout, nil)
		pl.VkLayout = vk.NullPipelineLayout
	}
}

// NewShaderModule makes a new shader module from given SPIR-V bytes.
func NewShaderModule(dev vk.Device, code []byte) vk.ShaderModule {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    SliceUint32(code),
	}, nil, &module)
	IfPanic(NewError(ret))
	return module
}

// SliceUint32 reinterprets given bytes as a []uint32, as required
// for SPIR-V code.  Length must be a multiple of 4.
func SliceUint32(data []byte) []uint32 {
	const m = 0x7fffffff
	if len(data) == 0 {
		return nil
	}
	return (*[m / 4]uint32)(unsafe.Pointer(&data[0]))[:len(data)/4]
}
