// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides a GPU compute driver over WebGPU, using the
// zero-CGO wgpu_native bindings.
//
// Kernels are WGSL compute entry points. The "-D NAME=value" build defines
// become WGSL const and alias declarations prepended to the source, so the
// same define conventions work across drivers:
//
//	-D VAR_TYPE=float   becomes   alias VAR_TYPE = f32;
//	-D BLOCK=16         becomes   const BLOCK = 16;
//
// The work-group shape is fixed by each entry point's @workgroup_size
// declaration. Submissions either omit the local size or restate the
// declared shape; global offsets and local scratch arguments report status
// errors, WGSL kernels declare workgroup memory in the shader text instead.
//
// # Basic Usage
//
//	import (
//	    "github.com/gpuq/gpuq/queue"
//	    _ "github.com/gpuq/gpuq/driver/webgpu"
//	)
//
//	q, err := queue.New("webgpu", "")
//
// # Configuration
//
// The driver accepts a "power=high|low" config selecting the adapter power
// preference:
//
//	drv, err := webgpu.New("power=high")
//	drv, err := driver.Open("webgpu:power=high")
package webgpu

import (
	"github.com/gpuq/gpuq/driver"
	internalwebgpu "github.com/gpuq/gpuq/internal/driver/webgpu"
)

// DriverName is the name this driver registers under.
const DriverName = internalwebgpu.DriverName

// Driver exposes the system's WebGPU adapter as a single platform with a
// single device.
type Driver = internalwebgpu.Driver

// Compile-time check that Driver implements driver.Driver.
var _ driver.Driver = (*Driver)(nil)

// New creates a webgpu driver and requests the adapter. Returns an error
// when the native runtime or a compatible adapter is missing.
func New(config string) (*Driver, error) {
	return internalwebgpu.New(config)
}

// IsAvailable reports whether the native runtime can provide an adapter.
// Useful for graceful fallback to the cpu driver:
//
//	if webgpu.IsAvailable() {
//	    q, err = queue.New("webgpu", "")
//	} else {
//	    q, err = queue.New("cpu", "")
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
