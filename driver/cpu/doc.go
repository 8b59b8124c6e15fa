// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a portable pure Go compute driver.
//
// # Overview
//
// The driver exposes the host CPU as a single platform with a single
// device. Kernels are Go functions registered under their entry-point
// names; a program "build" scans the kernel source for __kernel
// declarations and resolves each against the registry, so the same kernel
// files drive both this driver and real accelerator backends.
//
// Work items of a work-group run as concurrent goroutines and may
// synchronize with Item.Barrier, which matches the kernel-language
// barrier semantics including abort on a panicking item.
//
// # Basic Usage
//
//	import (
//	    "github.com/gpuq/gpuq/queue"
//	    _ "github.com/gpuq/gpuq/driver/cpu"
//	)
//
//	q, err := queue.New("", "")   // resolves the cpu device
//
// # Registering kernels
//
//	cpu.RegisterKernel("scale", cpu.Impl{
//	    NumArgs: 2,
//	    Run: func(wi *cpu.Item) {
//	        data := cpu.Arg[float32](wi, 0)
//	        factor := cpu.ScalarArg[float32](wi, 1)
//	        i := wi.GlobalID(0)
//	        data[i] *= factor
//	    },
//	})
//
// # Configuration
//
// The driver accepts a "threads=N" config to cap the goroutines used by
// data-parallel execution:
//
//	drv, err := cpu.New("threads=4")
//	drv, err := driver.Open("cpu:threads=4")
package cpu
