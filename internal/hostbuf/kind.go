// Package hostbuf provides the shared host-side buffers that cross the
// asynchronous dispatch boundary.
package hostbuf

import (
	"github.com/x448/float16"
)

// Element is a constraint for element types that can back a shared buffer.
// It uses Go generics to ensure compile-time type safety.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Kind represents runtime type information for buffer elements.
type Kind int

// Supported element kinds.
const (
	Invalid Kind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
)

// Size returns the byte size of the element kind.
func (k Kind) Size() int {
	switch k {
	case Int8, Uint8:
		return 1
	case Int16, Uint16, Float16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		panic("unknown element kind")
	}
}

// String returns a human-readable name for the element kind.
func (k Kind) String() string {
	switch k {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "invalid"
	}
}

// CLName returns the kernel-language type name for the element kind, the
// form expected by build defines such as "-D VAR_TYPE=int".
func (k Kind) CLName() string {
	switch k {
	case Int8:
		return "char"
	case Int16:
		return "short"
	case Int32:
		return "int"
	case Int64:
		return "long"
	case Uint8:
		return "uchar"
	case Uint16:
		return "ushort"
	case Uint32:
		return "uint"
	case Uint64:
		return "ulong"
	case Float16:
		return "half"
	case Float32:
		return "float"
	case Float64:
		return "double"
	default:
		return "void"
	}
}

// KindByCLName resolves a kernel-language type name back to its Kind.
// Unknown names return Invalid.
func KindByCLName(name string) Kind {
	switch name {
	case "char":
		return Int8
	case "short":
		return Int16
	case "int":
		return Int32
	case "long":
		return Int64
	case "uchar":
		return Uint8
	case "ushort":
		return Uint16
	case "uint":
		return Uint32
	case "ulong":
		return Uint64
	case "half":
		return Float16
	case "float":
		return Float32
	case "double":
		return Float64
	default:
		return Invalid
	}
}

// KindOf infers the element kind from a generic type T.
// Half-precision values use float16.Float16 from github.com/x448/float16.
func KindOf[T Element]() Kind {
	var dummy T
	switch any(dummy).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case float16.Float16:
		return Float16
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		panic("unsupported element type")
	}
}

// SizeOf returns the byte size of element type T.
func SizeOf[T Element]() int {
	return KindOf[T]().Size()
}

// FromFloat32s converts single-precision values into a freshly allocated
// half-precision buffer.
func FromFloat32s(src []float32) Buffer[float16.Float16] {
	b := New[float16.Float16](len(src))
	dst := b.Data()
	for i, v := range src {
		dst[i] = float16.Fromfloat32(v)
	}
	return b
}

// ToFloat32s converts a half-precision buffer back to single-precision values.
func ToFloat32s(b Buffer[float16.Float16]) []float32 {
	src := b.Data()
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = v.Float32()
	}
	return dst
}
