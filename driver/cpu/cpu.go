// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/gpuq/gpuq/driver"
	"github.com/gpuq/gpuq/hostbuf"
	internalcpu "github.com/gpuq/gpuq/internal/driver/cpu"
)

// DriverName is the name this driver registers under.
const DriverName = internalcpu.DriverName

// Driver is the portable pure Go compute driver.
type Driver = internalcpu.Driver

// Compile-time check that Driver implements driver.Driver.
var _ driver.Driver = (*Driver)(nil)

// New creates a cpu driver. The config accepts "threads=N" to cap the
// goroutines used by data-parallel execution; an empty config uses every
// logical CPU.
func New(config string) (*Driver, error) {
	return internalcpu.New(config)
}

// Impl is one registered kernel implementation.
type Impl = internalcpu.Impl

// Invocation is the per-submission view an implementation works against:
// the bound arguments, the parsed defines and the index range.
type Invocation = internalcpu.Invocation

// Item is one work item's view of an invocation, mirroring the index
// builtins of the kernel language.
type Item = internalcpu.Item

// RegisterKernel makes a kernel implementation available to program builds
// under its entry-point name.
func RegisterKernel(name string, impl Impl) {
	internalcpu.RegisterKernel(name, impl)
}

// RegisteredKernels returns the registered entry-point names, sorted.
func RegisteredKernels() []string {
	return internalcpu.RegisteredKernels()
}

// Arg views buffer argument i as a []T.
func Arg[T hostbuf.Element](wi *Item, i int) []T {
	return internalcpu.Arg[T](wi, i)
}

// ScalarArg decodes immediate argument i as a T.
func ScalarArg[T hostbuf.Element](wi *Item, i int) T {
	return internalcpu.ScalarArg[T](wi, i)
}

// LocalArg views the work-group's scratch allocation for argument i as a
// []T.
func LocalArg[T hostbuf.Element](wi *Item, i int) []T {
	return internalcpu.LocalArg[T](wi, i)
}
