// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package driver

import (
	"github.com/gpuq/gpuq/internal/driver"
)

// Driver is one accelerator backend: a way to enumerate platforms and open
// devices.
type Driver = driver.Driver

// Platform groups the devices exposed by one vendor runtime.
type Platform = driver.Platform

// Device is an opened compute device. Programs built from it and buffers
// allocated on it are only valid with queues of the same device.
type Device = driver.Device

// Program is a successfully built program; kernel handles are created from
// it by entry-point name.
type Program = driver.Program

// Kernel is an executable entry point of a built program.
type Kernel = driver.Kernel

// Buffer is a device-resident allocation.
type Buffer = driver.Buffer

// Event is the completion signal of one submitted operation.
type Event = driver.Event

// CmdQueue is one in-order command channel of a device: submissions
// complete in submission order relative to each other.
type CmdQueue = driver.CmdQueue

// DeviceInfo carries the device properties surfaced to diagnostics and
// work-size decisions.
type DeviceInfo = driver.DeviceInfo

// Access declares how a device buffer may be used by kernels.
type Access = driver.Access

// Buffer access policies.
const (
	ReadOnly  Access = driver.ReadOnly
	WriteOnly Access = driver.WriteOnly
	ReadWrite Access = driver.ReadWrite
)

// Range is the N-dimensional index space of one kernel submission.
type Range = driver.Range

// ArgKind discriminates the three binding forms a kernel argument can take.
type ArgKind = driver.ArgKind

// Kernel argument binding forms.
const (
	ArgBuffer ArgKind = driver.ArgBuffer
	ArgLocal  ArgKind = driver.ArgLocal
	ArgScalar ArgKind = driver.ArgScalar
)

// BoundArg is one positionally bound kernel argument: a device buffer, a
// local scratch allocation, or an immediate scalar value.
type BoundArg = driver.BoundArg

// BufferBinding binds a device buffer.
func BufferBinding(b Buffer) BoundArg {
	return driver.BufferBinding(b)
}

// LocalBinding binds a per-work-group scratch allocation of the given byte
// size.
func LocalBinding(size int) BoundArg {
	return driver.LocalBinding(size)
}

// ScalarBinding binds an immediate value from its raw bytes.
func ScalarBinding(value []byte) BoundArg {
	return driver.ScalarBinding(value)
}

// Error is an opaque failure reported by a compute runtime, surfaced with
// the operation that triggered it and the symbolic status code.
type Error = driver.Error

// BuildError reports a failed program build. Log carries the runtime's
// build log verbatim.
type BuildError = driver.BuildError

// Constructor builds a driver from its configuration string.
type Constructor = driver.Constructor

// ConfigEnvVar is the environment variable consulted when Open is called
// with an empty spec.
const ConfigEnvVar = driver.ConfigEnvVar

// Register makes a driver constructor available under the given name.
// Drivers call it from init, so programs select drivers with blank imports.
func Register(name string, ctor Constructor) {
	driver.Register(name, ctor)
}

// Available returns the registered driver names, sorted.
func Available() []string {
	return driver.Available()
}

// Open opens a driver from a "name" or "name:config" spec. An empty spec
// falls back to the GPUQ_DRIVER environment variable, then to "cpu" when
// registered, then to the first registered driver.
//
// Example:
//
//	drv, err := driver.Open("cpu:threads=4")
func Open(spec string) (Driver, error) {
	return driver.Open(spec)
}
