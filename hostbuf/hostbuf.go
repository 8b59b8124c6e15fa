// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package hostbuf

import (
	"github.com/x448/float16"

	"github.com/gpuq/gpuq/internal/hostbuf"
)

// Element is a constraint for element types that can back a shared buffer.
type Element = hostbuf.Element

// Kind represents runtime type information for buffer elements.
type Kind = hostbuf.Kind

// Supported element kinds.
const (
	Invalid Kind = hostbuf.Invalid
	Int8    Kind = hostbuf.Int8
	Int16   Kind = hostbuf.Int16
	Int32   Kind = hostbuf.Int32
	Int64   Kind = hostbuf.Int64
	Uint8   Kind = hostbuf.Uint8
	Uint16  Kind = hostbuf.Uint16
	Uint32  Kind = hostbuf.Uint32
	Uint64  Kind = hostbuf.Uint64
	Float16 Kind = hostbuf.Float16
	Float32 Kind = hostbuf.Float32
	Float64 Kind = hostbuf.Float64
)

// Release is the strategy invoked when the last reference to a backing
// store drops. The default (nil) lets the garbage collector reclaim the
// memory.
type Release = hostbuf.Release

// ReleaseNone leaves the backing memory untouched for its external owner.
func ReleaseNone(data []byte) {
	hostbuf.ReleaseNone(data)
}

// Buffer is a shared, fixed-length array of elements. Copies of the value
// alias the same backing store.
//
// Example:
//
//	a := hostbuf.FromSlice([]float32{1, 2, 3})
//	b := a            // aliases a's memory
//	b.Data()[0] = 9   // visible through a
type Buffer[T Element] = hostbuf.Buffer[T]

// Raw is the type-erased view of a shared buffer: backing store, element
// count and runtime element kind.
type Raw = hostbuf.Raw

// New allocates a zeroed buffer of n elements.
func New[T Element](n int) Buffer[T] {
	return hostbuf.New[T](n)
}

// FromSlice allocates a buffer of len(src) elements and copies src into it.
func FromSlice[T Element](src []T) Buffer[T] {
	return hostbuf.FromSlice(src)
}

// Adopt wraps an existing slice's memory without copying. The release
// strategy runs when the last reference drops; pass ReleaseNone for memory
// owned elsewhere.
func Adopt[T Element](src []T, free Release) Buffer[T] {
	return hostbuf.Adopt(src, free)
}

// View reinterprets a type-erased view as a typed buffer. It fails if T
// does not match the view's element kind.
func View[T Element](r Raw) (Buffer[T], error) {
	return hostbuf.View[T](r)
}

// KindOf infers the element kind from a generic type T.
func KindOf[T Element]() Kind {
	return hostbuf.KindOf[T]()
}

// SizeOf returns the byte size of element type T.
func SizeOf[T Element]() int {
	return hostbuf.SizeOf[T]()
}

// KindByCLName resolves a kernel-language type name such as "int" or
// "float" back to its Kind. Unknown names return Invalid.
func KindByCLName(name string) Kind {
	return hostbuf.KindByCLName(name)
}

// FromFloat32s converts single-precision values into a freshly allocated
// half-precision buffer.
func FromFloat32s(src []float32) Buffer[float16.Float16] {
	return hostbuf.FromFloat32s(src)
}

// ToFloat32s converts a half-precision buffer back to single-precision
// values.
func ToFloat32s(b Buffer[float16.Float16]) []float32 {
	return hostbuf.ToFloat32s(b)
}
