package queue

import (
	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/hostbuf"
)

// DeviceBuffer is device memory the caller allocates and manages
// explicitly, bypassing the per-dispatch realization Enqueue performs.
// Pass it to kernels with BufferArg and move data with CopyToDevice and
// CopyFromDevice.
type DeviceBuffer struct {
	buf  driver.Buffer
	n    int
	kind hostbuf.Kind
}

// NewDeviceBuffer allocates uninitialized device memory for n elements
// of T on q's device.
func NewDeviceBuffer[T hostbuf.Element](q *Queue, n int, access driver.Access) (DeviceBuffer, error) {
	kind := hostbuf.KindOf[T]()
	if n < 0 {
		return DeviceBuffer{}, errors.Errorf("queue: negative element count %d", n)
	}
	buf, err := q.device.NewBuffer(n*kind.Size(), access, nil)
	if err != nil {
		return DeviceBuffer{}, err
	}
	return DeviceBuffer{buf: buf, n: n, kind: kind}, nil
}

// NewDeviceBufferFrom allocates device memory sized and pre-populated
// from src. Write-only memory is never pre-populated.
func NewDeviceBufferFrom[T hostbuf.Element](q *Queue, src hostbuf.Buffer[T], access driver.Access) (DeviceBuffer, error) {
	var init []byte
	if access != driver.WriteOnly {
		init = src.Bytes()
	}
	buf, err := q.device.NewBuffer(src.ByteSize(), access, init)
	if err != nil {
		return DeviceBuffer{}, err
	}
	return DeviceBuffer{buf: buf, n: src.Len(), kind: hostbuf.KindOf[T]()}, nil
}

// Len returns the element count the buffer was allocated for.
func (b DeviceBuffer) Len() int { return b.n }

// Kind returns the element kind the buffer was allocated for.
func (b DeviceBuffer) Kind() hostbuf.Kind { return b.kind }

// ByteSize returns the allocation size in bytes.
func (b DeviceBuffer) ByteSize() int { return b.n * b.kind.Size() }

// IsNil reports whether b is the zero DeviceBuffer.
func (b DeviceBuffer) IsNil() bool { return b.buf == nil }

// Release frees the device memory. The caller must not release memory
// that in-flight submissions still reference.
func (b DeviceBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
	}
}
