// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package queue provides asynchronous kernel dispatch over the gpuq
// compute drivers.
//
// # Overview
//
// A Queue owns one in-order command queue on one device and caches the
// programs and kernels built on it. Enqueue submits a kernel over an
// N-dimensional grid without blocking and returns a Future; the future
// resolves to the refreshed host views of the kernel's output arguments
// once the submission and its read-backs complete.
//
// # Basic Usage
//
//	import (
//	    "github.com/gpuq/gpuq/hostbuf"
//	    "github.com/gpuq/gpuq/queue"
//	    _ "github.com/gpuq/gpuq/driver/cpu"
//	)
//
//	q, err := queue.New("", "")
//	defer q.Release()
//
//	k, err := q.Compile("kernels/vector.cl", "vector_add", "-D VAR_TYPE=int")
//
//	a := hostbuf.FromSlice([]int32{1, 2, 3, 4})
//	b := hostbuf.FromSlice([]int32{10, 20, 30, 40})
//	c := hostbuf.New[int32](4)
//
//	task := queue.NewTask(k, queue.In(a), queue.In(b), queue.Out(c))
//	fut, err := q.Enqueue(task, queue.NewGrid(4))
//
//	views, err := fut.Get() // blocks; c now holds the sums
//
// # Argument binding
//
// Task arguments bind positionally to the kernel's parameters. In, Out and
// InOut wrap host buffers and declare the transfer direction; Local
// reserves per-work-group scratch; Scalar passes an immediate value;
// BufferArg binds a device buffer managed by the caller. Out and InOut
// host arguments are read back into the same host memory when the kernel
// completes, in argument order.
//
// # Ordering
//
// Submissions on one queue complete in submission order. Across queues,
// pass the futures of earlier operations as dependencies:
//
//	futX, err := q1.Enqueue(produce, grid)
//	futY, err := q2.Enqueue(consume, grid, futX)
//
// The consuming submission, including the host-to-device copies of its
// inputs, waits for every dependency before it runs.
//
// # Buffer lifetime
//
// The engine retains every host buffer bound to a submission and releases
// it when the completion signal fires. A future that is dropped without
// Get or Wait does not leak and does not cancel the work; the kernel still
// runs and output host memory is still refreshed.
//
// # Futures
//
// A Future hands over its result exactly once: Get blocks, moves the
// result out and invalidates the future. Wait observes completion without
// consuming. Using a zero, nil or consumed future fails with
// ErrInvalidSignal.
package queue
