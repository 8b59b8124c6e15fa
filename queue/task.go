// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package queue

import (
	"github.com/gpuq/gpuq/driver"
	"github.com/gpuq/gpuq/hostbuf"
	"github.com/gpuq/gpuq/internal/queue"
)

// Grid is the N-dimensional index space of one submission: a required
// Global extent per dimension, an optional Offset and an optional Local
// work-group shape. One to three dimensions are supported.
type Grid = queue.Grid

// NewGrid builds a grid from its global extents.
//
// Example:
//
//	queue.NewGrid(1024)                    // 1D
//	queue.NewGrid(cols, rows).WithLocal(16, 16)
func NewGrid(global ...int) Grid {
	return queue.NewGrid(global...)
}

// Direction declares how a kernel argument crosses the host-device
// boundary.
type Direction = queue.Direction

// Argument directions.
const (
	DirIn     Direction = queue.DirIn
	DirOut    Direction = queue.DirOut
	DirInOut  Direction = queue.DirInOut
	DirLocal  Direction = queue.DirLocal
	DirScalar Direction = queue.DirScalar
)

// Arg is one positional kernel argument.
type Arg = queue.Arg

// In binds a host buffer as a kernel input. Its contents are copied to the
// device when the submission runs.
func In[T hostbuf.Element](b hostbuf.Buffer[T]) Arg {
	return queue.In(b)
}

// Out binds a host buffer as a kernel output. The device result is read
// back into the same host memory when the kernel completes.
func Out[T hostbuf.Element](b hostbuf.Buffer[T]) Arg {
	return queue.Out(b)
}

// InOut binds a host buffer that the kernel both reads and writes.
func InOut[T hostbuf.Element](b hostbuf.Buffer[T]) Arg {
	return queue.InOut(b)
}

// Local reserves per-work-group scratch for n elements of type T.
func Local[T hostbuf.Element](n int) Arg {
	return queue.Local[T](n)
}

// LocalBytes reserves per-work-group scratch of the given byte size.
func LocalBytes(size int) Arg {
	return queue.LocalBytes(size)
}

// Scalar passes an immediate value as a kernel argument.
func Scalar[T hostbuf.Element](v T) Arg {
	return queue.Scalar(v)
}

// NewArg binds a type-erased host buffer view with an explicit direction.
func NewArg(r hostbuf.Raw, dir Direction) Arg {
	return queue.NewArg(r, dir)
}

// BufferArg binds a device buffer managed by the caller. No host copies
// are made in either direction.
func BufferArg(b DeviceBuffer, dir Direction) Arg {
	return queue.BufferArg(b, dir)
}

// Task pairs a compiled kernel with its positional arguments. A task is
// immutable once built and may be enqueued repeatedly.
type Task = queue.Task

// NewTask builds a task from a compiled kernel and its arguments in
// kernel-signature order.
//
// Example:
//
//	k, err := q.Compile("kernels/vector.cl", "vector_add", "")
//	task := queue.NewTask(k, queue.In(a), queue.In(b), queue.Out(c))
func NewTask(kernel driver.Kernel, args ...Arg) *Task {
	return queue.NewTask(kernel, args...)
}
