// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package queue

import (
	"github.com/gpuq/gpuq/driver"
	"github.com/gpuq/gpuq/hostbuf"
	"github.com/gpuq/gpuq/internal/queue"
)

// DeviceBuffer is a typed handle to a device-resident allocation whose
// lifetime the caller manages. Bind one to a task with BufferArg to keep
// data on the device across submissions.
type DeviceBuffer = queue.DeviceBuffer

// NewDeviceBuffer allocates an uninitialized device buffer of n elements
// of type T on the queue's device.
func NewDeviceBuffer[T hostbuf.Element](q *Queue, n int, access driver.Access) (DeviceBuffer, error) {
	return queue.NewDeviceBuffer[T](q, n, access)
}

// NewDeviceBufferFrom allocates a device buffer pre-populated from a host
// buffer. WriteOnly buffers are never pre-populated.
func NewDeviceBufferFrom[T hostbuf.Element](q *Queue, src hostbuf.Buffer[T], access driver.Access) (DeviceBuffer, error) {
	return queue.NewDeviceBufferFrom(q, src, access)
}

// CopyToDevice asynchronously copies a host buffer into a device buffer.
// The returned future resolves to dst once the transfer completes.
//
// Example:
//
//	fut, err := queue.CopyToDevice(q, dev, host)
//	_, err = q.Enqueue(task, grid, fut)
func CopyToDevice[T hostbuf.Element](q *Queue, dst DeviceBuffer, src hostbuf.Buffer[T], deps ...Waiter) (*Future[DeviceBuffer], error) {
	return queue.CopyToDevice(q, dst, src, deps...)
}

// CopyFromDevice asynchronously copies a device buffer into a host buffer.
// The returned future resolves to dst once the transfer completes.
func CopyFromDevice[T hostbuf.Element](q *Queue, dst hostbuf.Buffer[T], src DeviceBuffer, deps ...Waiter) (*Future[hostbuf.Buffer[T]], error) {
	return queue.CopyFromDevice(q, dst, src, deps...)
}
