//go:build windows

package webgpu

import (
	"sync/atomic"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/gpuq/gpuq/internal/driver"
)

// minAlloc is the smallest storage allocation the runtime accepts. Copy
// sizes must also be multiples of it, so allocations round up and Size keeps
// reporting the logical size.
const minAlloc = 4

// gpuBuffer is a storage buffer on the adapter's device, usable as a copy
// source and destination so reads and writes can stage through it.
type gpuBuffer struct {
	buf      *wgpu.Buffer
	size     int
	released atomic.Bool
}

// NewBuffer allocates a storage buffer of size bytes. A non-nil hostInit is
// uploaded through a mapped-at-creation range unless the buffer is
// write-only.
func (d *device) NewBuffer(size int, access driver.Access, hostInit []byte) (driver.Buffer, error) {
	if size < 0 {
		return nil, driver.Errf("webgpu: NewBuffer", driver.StatusInvalidBufferSize)
	}
	preload := hostInit != nil && access != driver.WriteOnly
	if preload && len(hostInit) != size {
		return nil, driver.Errf("webgpu: NewBuffer", driver.StatusInvalidHostPtr)
	}
	preload = preload && size > 0

	alloc := roundUp(uint64(size))
	desc := &wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  alloc,
	}
	if preload {
		desc.MappedAtCreation = wgpu.True
	}
	buf := d.wdev.CreateBuffer(desc)
	if buf == nil {
		return nil, driver.Errf("webgpu: NewBuffer", driver.StatusMemAllocationFailure)
	}
	if preload {
		ptr := buf.GetMappedRange(0, alloc)
		copy(unsafe.Slice((*byte)(ptr), size), hostInit)
		buf.Unmap()
	}
	return &gpuBuffer{buf: buf, size: size}, nil
}

func (b *gpuBuffer) Size() int { return b.size }

func (b *gpuBuffer) Release() {
	if b.released.CompareAndSwap(false, true) {
		b.buf.Release()
		b.buf = nil
	}
}

// handle returns the underlying buffer, or INVALID_MEM_OBJECT after Release.
func (b *gpuBuffer) handle() (*wgpu.Buffer, error) {
	if b.released.Load() {
		return nil, driver.Errf("webgpu: buffer access", driver.StatusInvalidMemObject)
	}
	return b.buf, nil
}

// roundUp rounds n up to a copy-aligned allocation size.
func roundUp(n uint64) uint64 {
	n = (n + minAlloc - 1) &^ (minAlloc - 1)
	if n < minAlloc {
		n = minAlloc
	}
	return n
}
