// Copyright (c) 2024, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtrace

import (
	vk "github.com/goki/vulkan"
)

// Device holds the externally created logical device, along with
// the queue used for submitting transfer and compute work.
// vtrace does not create or destroy the device -- that belongs
// to the enclosing application.
type Device struct {

	// logical device handle
	Device vk.Device

	// queue family index of Queue
	QueueIndex uint32

	// the queue for submitting commands
	Queue vk.Queue
}

// Init records given logical device and fetches the queue at index 0
// of given queue family.
func (dv *Device) Init(dev vk.Device, queueIndex uint32) {
	dv.Device = dev
	dv.QueueIndex = queueIndex
	vk.GetDeviceQueue(dev, queueIndex, 0, &dv.Queue)
}
