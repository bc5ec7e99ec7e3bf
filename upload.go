// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// LightBuffers owns the device-local storage buffers holding the
// punctual lights, triangle lights, and the light-set header, for
// shader-side direct-light sampling.
type LightBuffers struct {
	GPU *GPU

	// light data buffers, staged host -> device
	Punc MemBuff
	Trig MemBuff
	Info MemBuff

	// transient pool for the staging copies
	CmdPool CmdPool
}

// Config records the GPU and sets up the transfer command pool.
func (lb *LightBuffers) Config(gp *GPU, dv *Device) {
	lb.GPU = gp
	lb.Punc = MemBuff{GPU: gp, Usage: vk.BufferUsageStorageBufferBit}
	lb.Trig = MemBuff{GPU: gp, Usage: vk.BufferUsageStorageBufferBit}
	lb.Info = MemBuff{GPU: gp, Usage: vk.BufferUsageUniformBufferBit}
	lb.CmdPool.ConfigTransient(dv)
}

// Upload stages given light set and transfers it to device-local
// buffers.  Empty light classes get no buffer; the header is always
// uploaded so shaders see the zero counts.
func (lb *LightBuffers) Upload(dv *Device, ls *LightSet) {
	dev := dv.Device
	if len(ls.Punc) > 0 {
		sz := len(ls.Punc) * PuncLightSize
		lb.Punc.AllocHost(dev, sz)
		lb.Punc.CopyBytes(byteView(unsafe.Pointer(&ls.Punc[0]), sz))
		lb.Punc.AllocDev(dev)
		lb.Punc.TransferToGPU(dv, &lb.CmdPool)
	}
	if len(ls.Trig) > 0 {
		sz := len(ls.Trig) * TrigLightSize
		lb.Trig.AllocHost(dev, sz)
		lb.Trig.CopyBytes(byteView(unsafe.Pointer(&ls.Trig[0]), sz))
		lb.Trig.AllocDev(dev)
		lb.Trig.TransferToGPU(dv, &lb.CmdPool)
	}
	lb.Info.AllocHost(dev, LightSetInfoSize)
	lb.Info.CopyBytes(byteView(unsafe.Pointer(&ls.Info), LightSetInfoSize))
	lb.Info.AllocDev(dev)
	lb.Info.TransferToGPU(dv, &lb.CmdPool)
	if Debug {
		log.Printf("vtrace: LightBuffers uploaded %d punctual, %d triangle\n",
			ls.Info.PuncLightCount, ls.Info.TrigLightCount)
	}
}

// Destroy frees all buffers and the command pool.
func (lb *LightBuffers) Destroy(dv *Device) {
	dev := dv.Device
	lb.Punc.Free(dev)
	lb.Trig.Free(dev)
	lb.Info.Free(dev)
	lb.CmdPool.Destroy(dev)
}

// byteView reinterprets size bytes at given pointer as a byte slice.
// The records involved are fixed-layout 4-byte scalar structs, so
// their in-memory bytes are their shader-layout bytes.
func byteView(ptr unsafe.Pointer, size int) []byte {
	const m = 0x7fffffff
	return (*[m]byte)(ptr)[:size]
}
