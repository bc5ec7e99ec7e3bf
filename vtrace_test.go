// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// TestPtrFuncs can only be run on desktop platform where actual pointers are used
func TestPtrFuncs(t *testing.T) {
	var ptr32bit uint64
	var cmdPool vk.CommandPool

	if !IsNil(ptr32bit) {
		t.Errorf("ptr32bit should be nil!\n")
	}
	if !IsNil(cmdPool) {
		t.Errorf("cmdPool should be nil!\n")
	}

	ptr32bit = 10
	cmdPool = vk.CommandPool(unsafe.Add(unsafe.Pointer(cmdPool), 100))

	if IsNil(ptr32bit) {
		t.Errorf("ptr32bit should not be nil!\n")
	}
	if IsNil(cmdPool) {
		t.Errorf("cmdPool should not be nil!\n")
	}

	SetNil(unsafe.Pointer(&ptr32bit))
	SetNil(unsafe.Pointer(&cmdPool))

	if !IsNil(ptr32bit) {
		t.Errorf("ptr32bit should be nil!\n")
	}
	if !IsNil(cmdPool) {
		t.Errorf("cmdPool should be nil!\n")
	}
}

func TestErrors(t *testing.T) {
	if NewError(vk.Success) != nil {
		t.Errorf("Success should yield nil error\n")
	}
	err := NewError(vk.ErrorDeviceLost)
	if err == nil {
		t.Errorf("ErrorDeviceLost should yield an error\n")
	}
	if IsError(vk.Success) {
		t.Errorf("Success is not an error\n")
	}
	if !IsError(vk.ErrorOutOfDeviceMemory) {
		t.Errorf("ErrorOutOfDeviceMemory is an error\n")
	}
}
