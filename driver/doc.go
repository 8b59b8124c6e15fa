// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package driver defines the contract between the gpuq dispatch engine and
// the compute backends that execute its work.
//
// # Overview
//
// A driver exposes one accelerator runtime: it enumerates platforms and
// devices, builds kernel programs, allocates device buffers, and creates
// in-order command queues whose submissions produce completion events.
// The dispatch engine in the queue package is written solely against these
// interfaces.
//
// Implementations:
//   - driver/cpu: portable pure Go execution, one goroutine per work item
//   - driver/webgpu: GPU compute via WebGPU, WGSL kernels (windows)
//   - driver/opencl: OpenCL via CGO (build tag "opencl")
//
// # Selecting a driver
//
// Drivers register themselves from init, so programs select one with a
// blank import and an Open spec:
//
//	import (
//	    "github.com/gpuq/gpuq/driver"
//	    _ "github.com/gpuq/gpuq/driver/cpu"
//	)
//
//	drv, err := driver.Open("cpu")        // explicit
//	drv, err := driver.Open("cpu:threads=4")  // with config
//	drv, err := driver.Open("")           // GPUQ_DRIVER env, then default
//
// # Error reporting
//
// Failures carry the numeric status convention of the underlying compute
// runtimes: *Error pairs the failed operation with a Status code, and
// *BuildError additionally carries the runtime's build log verbatim.
package driver
