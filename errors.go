// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This is initially adapted from https://github.com/vulkan-go/asche
// Copyright © 2017 Maxim Kupriianov <max@kc.vc>, under the MIT License

package vtrace

import (
	"fmt"
	"reflect"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// IsError returns true if the given result code is not vk.Success.
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError returns an error for given result code,
// or nil if the code is vk.Success.
func NewError(ret vk.Result) error {
	if ret != vk.Success {
		return fmt.Errorf("vulkan error: %s (%d)",
			vk.Error(ret).Error(), ret)
	}
	return nil
}

// IfPanic panics on given error (running any finalizers first),
// and is a no-op for a nil error.  Vulkan errors at this level
// are unrecoverable.
func IfPanic(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}
		panic(err)
	}
}

// CheckErr recovers a panic into *err, for deferred use.
func CheckErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}

// IsNil returns true if given Vulkan handle is nil / null --
// handles are pointers on desktop and uint64 on some platforms,
// so a reflect-based test is required.
func IsNil(handle any) bool {
	v := reflect.ValueOf(handle)
	switch v.Kind() {
	case reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return v.Uint() == 0
	default:
		return v.Pointer() == 0
	}
}

// SetNil sets given pointer to a Vulkan handle to nil / null.
// Pass the address of the handle field.
func SetNil(handlePtr unsafe.Pointer) {
	*(*uint64)(handlePtr) = 0
}
