// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"log"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// MemBuff is a paired host-visible staging buffer and device-local
// buffer of one usage type, with the host buffer mapped while
// allocated.  Data flows host -> device via TransferToGPU.
type MemBuff struct {
	GPU *GPU

	// usage of the Dev buffer, e.g., StorageBufferBit
	Usage vk.BufferUsageFlagBits

	// allocated size in bytes of both buffers
	Size int

	// host-visible staging buffer, mapped at HostPtr
	Host    vk.Buffer
	HostMem vk.DeviceMemory

	// device-local buffer used by shaders
	Dev    vk.Buffer
	DevMem vk.DeviceMemory

	// pointer to mapped host memory
	HostPtr unsafe.Pointer
}

// AllocHost allocates the host staging buffer to given size and maps
// it, freeing any existing allocation of a different size first.
// No-op if size is unchanged.
func (mb *MemBuff) AllocHost(dev vk.Device, size int) {
	if mb.Size == size && mb.Host != vk.NullBuffer {
		return
	}
	mb.FreeHost(dev)
	mb.Size = size
	if size == 0 {
		return
	}
	usage := vk.BufferUsageFlagBits(vk.BufferUsageTransferSrcBit)
	mb.Host = NewBuffer(dev, size, usage)
	mb.HostMem = AllocBuffMem(mb.GPU, dev, mb.Host, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	mb.HostPtr = MapMemory(dev, mb.HostMem, size)
	if Debug {
		log.Printf("vtrace: MemBuff allocated host staging buffer: %d bytes\n", size)
	}
}

// AllocDev allocates the device-local buffer to the current Size,
// with TransferDst added to the configured Usage.  Frees any
// existing device buffer first.
func (mb *MemBuff) AllocDev(dev vk.Device) {
	mb.FreeDev(dev)
	if mb.Size == 0 {
		return
	}
	usage := mb.Usage | vk.BufferUsageTransferDstBit
	mb.Dev = NewBuffer(dev, mb.Size, usage)
	mb.DevMem = AllocBuffMem(mb.GPU, dev, mb.Dev, vk.MemoryPropertyDeviceLocalBit)
}

// CopyBytes copies given bytes into the mapped host buffer.
// The source must not exceed the allocated Size.
func (mb *MemBuff) CopyBytes(src []byte) {
	if len(src) > mb.Size {
		log.Printf("vtrace: MemBuff.CopyBytes: source size %d exceeds allocated size %d\n", len(src), mb.Size)
		return
	}
	const m = 0x7fffffff
	dst := (*[m]byte)(mb.HostPtr)[:len(src)]
	copy(dst, src)
}

// TransferToGPU records and submits a one-time copy of the full
// buffer from host to device, waiting for completion.
func (mb *MemBuff) TransferToGPU(dv *Device, cp *CmdPool) {
	if mb.Size == 0 || mb.Dev == vk.NullBuffer {
		return
	}
	cmd := cp.BeginCmdOneTime(dv)
	vk.CmdCopyBuffer(cmd, mb.Host, mb.Dev, 1, []vk.BufferCopy{{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      vk.DeviceSize(mb.Size),
	}})
	cp.EndSubmitWaitFree(dv)
}

// FreeHost unmaps and frees the host staging buffer.
func (mb *MemBuff) FreeHost(dev vk.Device) {
	if mb.Host == vk.NullBuffer {
		return
	}
	vk.UnmapMemory(dev, mb.HostMem)
	mb.HostPtr = nil
	FreeBuffMem(dev, &mb.HostMem)
	DestroyBuffer(dev, &mb.Host)
}

// FreeDev frees the device-local buffer.
func (mb *MemBuff) FreeDev(dev vk.Device) {
	FreeBuffMem(dev, &mb.DevMem)
	DestroyBuffer(dev, &mb.Dev)
}

// Free frees both buffers and resets Size.
func (mb *MemBuff) Free(dev vk.Device) {
	mb.FreeDev(dev)
	mb.FreeHost(dev)
	mb.Size = 0
}

// NewBuffer makes a buffer of given size and usage.
// Returns NullBuffer for size 0.
func NewBuffer(dev vk.Device, size int, usage vk.BufferUsageFlagBits) vk.Buffer {
	if size == 0 {
		return vk.NullBuffer
	}
	var buffer vk.Buffer
	ret := vk.CreateBuffer(dev, &vk.BufferCreateInfo{
		SType: vk.StructureTypeBufferCreateInfo,
		Usage: vk.BufferUsageFlags(usage),
		Size:  vk.DeviceSize(size),
	}, nil, &buffer)
	IfPanic(NewError(ret))
	return buffer
}

// AllocBuffMem allocates memory for given buffer, with given memory
// properties, and binds it to the buffer.
func AllocBuffMem(gp *GPU, dev vk.Device, buffer vk.Buffer, props vk.MemoryPropertyFlagBits) vk.DeviceMemory {
	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, buffer, &memReqs)
	memReqs.Deref()

	memProps := gp.MemoryProps
	memType, ok := FindRequiredMemoryType(memProps, vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), props)
	if !ok {
		log.Println("vtrace: AllocBuffMem: no suitable memory type")
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	IfPanic(NewError(ret))

	ret = vk.BindBufferMemory(dev, buffer, memory, 0)
	IfPanic(NewError(ret))
	return memory
}

// MapMemory maps given memory of given size, returning the pointer.
func MapMemory(dev vk.Device, mem vk.DeviceMemory, size int) unsafe.Pointer {
	var ptr unsafe.Pointer
	ret := vk.MapMemory(dev, mem, 0, vk.DeviceSize(size), 0, &ptr)
	IfPanic(NewError(ret))
	return ptr
}

// FreeBuffMem frees given memory, setting the handle to null.
func FreeBuffMem(dev vk.Device, memory *vk.DeviceMemory) {
	if *memory == vk.NullDeviceMemory {
		return
	}
	vk.FreeMemory(dev, *memory, nil)
	*memory = vk.NullDeviceMemory
}

// DestroyBuffer destroys given buffer, setting the handle to null.
func DestroyBuffer(dev vk.Device, buff *vk.Buffer) {
	if *buff == vk.NullBuffer {
		return
	}
	vk.DestroyBuffer(dev, *buff, nil)
	*buff = vk.NullBuffer
}

// FindRequiredMemoryType finds a memory type index satisfying both
// the type bits of a memory requirement and the given property flags.
func FindRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties, deviceRequirements, hostRequirements vk.MemoryPropertyFlagBits) (uint32, bool) {
	for i := uint32(0); i < vk.MaxMemoryTypes; i++ {
		if deviceRequirements&(1<<i) != 0 {
			props.MemoryTypes[i].Deref()
			flags := props.MemoryTypes[i].PropertyFlags
			if flags&vk.MemoryPropertyFlags(hostRequirements) == vk.MemoryPropertyFlags(hostRequirements) {
				return i, true
			}
		}
	}
	return 0, false
}
