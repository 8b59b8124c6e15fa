// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hostbuf provides the shared host-side buffers that cross the
// asynchronous dispatch boundary.
//
// # Overview
//
// A Buffer is a fixed-length typed array over a reference-counted backing
// store. Copies of the value alias the same memory; the store is reclaimed
// when the last reference drops. The dispatch engine retains every buffer
// bound to an in-flight submission, so host memory stays alive until the
// device is done with it even if the caller drops its handle first.
//
// # Basic Usage
//
//	a := hostbuf.FromSlice([]int32{1, 2, 3, 4})
//	b := hostbuf.New[int32](4)        // zeroed
//	raw := a.Raw()                    // type-erased view
//	t, err := hostbuf.View[int32](raw) // and back
//
// # Element types
//
// Buffers hold fixed-size numeric elements via the Element constraint:
// int8 through int64, uint8 through uint64, float32, float64, and
// half-precision values as float16.Float16 from github.com/x448/float16.
// The runtime Kind of a buffer names the element type after erasure and
// maps to the kernel-language type name used in build defines.
//
// # External memory
//
// Adopt wraps memory owned elsewhere without copying. The Release strategy
// passed to Adopt runs when the last reference drops; ReleaseNone marks
// memory that an external allocator will reclaim itself.
package hostbuf
