package cpu

import (
	"sync/atomic"

	"github.com/gpuq/gpuq/internal/driver"
)

// memBuffer is a device buffer of the portable driver: a private copy of
// host memory, so kernel effects only reach host arrays through read-backs,
// the way copy-in device allocations behave on hardware.
type memBuffer struct {
	data     []byte
	access   driver.Access
	released atomic.Bool
}

// NewBuffer allocates a buffer of size bytes. A non-nil hostInit is copied
// in unless the buffer is write-only.
func (d *device) NewBuffer(size int, access driver.Access, hostInit []byte) (driver.Buffer, error) {
	if size < 0 {
		return nil, driver.Errf("cpu: NewBuffer", driver.StatusInvalidBufferSize)
	}
	b := &memBuffer{data: make([]byte, size), access: access}
	if hostInit != nil && access != driver.WriteOnly {
		if len(hostInit) != size {
			return nil, driver.Errf("cpu: NewBuffer", driver.StatusInvalidHostPtr)
		}
		copy(b.data, hostInit)
	}
	return b, nil
}

func (b *memBuffer) Size() int { return len(b.data) }

func (b *memBuffer) Release() {
	if b.released.CompareAndSwap(false, true) {
		b.data = nil
	}
}

func (b *memBuffer) bytes() ([]byte, error) {
	if b.released.Load() {
		return nil, driver.Errf("cpu: buffer access", driver.StatusInvalidMemObject)
	}
	return b.data, nil
}
