package queue

import (
	"unsafe"

	"github.com/gpuq/gpuq/internal/hostbuf"
)

// Direction declares how one kernel argument crosses the host/device
// boundary. It drives both the device-buffer access mode the dispatcher
// realizes the argument with and whether the argument is read back after
// the kernel runs.
type Direction int

const (
	// DirIn marks host data the kernel only reads.
	DirIn Direction = iota + 1
	// DirOut marks host data the kernel produces. It is read back.
	DirOut
	// DirInOut marks host data the kernel reads and updates. It is read back.
	DirInOut
	// DirLocal reserves per-work-group scratch of a fixed byte size.
	DirLocal
	// DirScalar passes a plain value by copy.
	DirScalar
)

func (d Direction) String() string {
	switch d {
	case DirIn:
		return "in"
	case DirOut:
		return "out"
	case DirInOut:
		return "inout"
	case DirLocal:
		return "local"
	case DirScalar:
		return "scalar"
	}
	return "invalid"
}

// Arg is one positional kernel argument: a host buffer with a transfer
// direction, a pre-realized device buffer, a local scratch reservation,
// or a scalar immediate. Args are immutable once constructed.
type Arg struct {
	dir  Direction
	raw  hostbuf.Raw  // host backing for in/out/inout
	dev  DeviceBuffer // pre-realized device memory, bypasses realization
	size int          // local scratch byte size
	val  []byte       // scalar immediate, native byte order
}

// Dir returns the argument's transfer direction.
func (a Arg) Dir() Direction { return a.dir }

// hostBacked reports whether the argument references host memory the
// dispatcher must realize and, for out directions, read back.
func (a Arg) hostBacked() bool { return !a.raw.IsNil() }

// NewArg wraps a type-erased host buffer with an explicit direction.
// In, Out and InOut are the typed shorthands.
func NewArg(r hostbuf.Raw, dir Direction) Arg {
	return Arg{dir: dir, raw: r}
}

// In marks b as kernel input.
func In[T hostbuf.Element](b hostbuf.Buffer[T]) Arg {
	return Arg{dir: DirIn, raw: b.Raw()}
}

// Out marks b as kernel output. Its contents are refreshed from the
// device once the kernel completes.
func Out[T hostbuf.Element](b hostbuf.Buffer[T]) Arg {
	return Arg{dir: DirOut, raw: b.Raw()}
}

// InOut marks b as both input and output.
func InOut[T hostbuf.Element](b hostbuf.Buffer[T]) Arg {
	return Arg{dir: DirInOut, raw: b.Raw()}
}

// Local reserves per-work-group scratch for n elements of T.
func Local[T hostbuf.Element](n int) Arg {
	return Arg{dir: DirLocal, size: n * hostbuf.SizeOf[T]()}
}

// LocalBytes reserves per-work-group scratch of an explicit byte size.
func LocalBytes(size int) Arg {
	return Arg{dir: DirLocal, size: size}
}

// Scalar passes v to the kernel by value.
func Scalar[T hostbuf.Element](v T) Arg {
	val := make([]byte, unsafe.Sizeof(v))
	copy(val, unsafe.Slice((*byte)(unsafe.Pointer(&v)), len(val)))
	return Arg{dir: DirScalar, val: val}
}

// BufferArg passes device memory the caller allocated with
// NewDeviceBuffer. No realization or read-back happens for it; pair it
// with CopyToDevice / CopyFromDevice for transfers. dir must be DirIn,
// DirOut or DirInOut.
func BufferArg(b DeviceBuffer, dir Direction) Arg {
	return Arg{dir: dir, dev: b}
}
