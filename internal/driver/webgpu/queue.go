//go:build windows

package webgpu

import (
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
)

// event is the completion signal of one submission.
type event struct {
	done chan struct{}
	err  error
}

func newEvent() *event {
	return &event{done: make(chan struct{})}
}

func (e *event) complete(err error) {
	e.err = err
	close(e.done)
}

func (e *event) Wait() error {
	<-e.done
	return e.err
}

func (e *event) Done() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// cmdQueue is an in-order command channel over the device's single native
// queue: one dispatcher goroutine encodes and submits FIFO. The native queue
// executes submissions in order and read-backs block on the staging map, so
// a read submitted after a kernel returns that kernel's output even though
// kernel events fire at submit time.
type cmdQueue struct {
	dev *device

	mu     sync.Mutex
	closed bool
	subs   chan func()
	done   chan struct{}
}

func (d *device) NewQueue() (driver.CmdQueue, error) {
	q := &cmdQueue{
		dev:  d,
		subs: make(chan func(), 64),
		done: make(chan struct{}),
	}
	go q.loop()
	return q, nil
}

func (q *cmdQueue) loop() {
	for f := range q.subs {
		f()
	}
	close(q.done)
}

func (q *cmdQueue) submit(f func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return driver.Errf("webgpu: submit", driver.StatusInvalidCommandQueue)
	}
	q.subs <- f
	return nil
}

func waitAll(waits []driver.Event) error {
	for _, w := range waits {
		if err := w.Wait(); err != nil {
			return errors.Wrap(err, "webgpu: dependency failed")
		}
	}
	return nil
}

// validateSubmission applies the range and binding rules of the WGSL
// pipeline model, so failures surface synchronously. Work-group shapes are
// fixed by the entry point declaration: an explicit local size must restate
// the declared shape, global offsets are not expressible, and workgroup
// memory is declared in the shader rather than bound.
func validateSubmission(k *kernel, r driver.Range, args []driver.BoundArg) error {
	dims := r.Dims()
	if dims < 1 || dims > 3 {
		return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidWorkDimension)
	}
	for _, off := range r.Offset {
		if off != 0 {
			return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidGlobalOffset)
		}
	}
	for d := 0; d < dims; d++ {
		if r.Global[d] <= 0 {
			return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidGlobalWorkSize)
		}
	}
	if len(r.Local) > 0 {
		if len(r.Local) != dims {
			return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
		}
		for d := 0; d < dims; d++ {
			if r.Local[d] != k.group[d] || r.Global[d]%r.Local[d] != 0 {
				return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
			}
		}
		for d := dims; d < 3; d++ {
			if k.group[d] != 1 {
				return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
			}
		}
	}
	for i, arg := range args {
		switch arg.Kind {
		case driver.ArgBuffer:
			if _, ok := arg.Buffer.(*gpuBuffer); !ok {
				return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidMemObject)
			}
		case driver.ArgLocal:
			return errors.Wrapf(driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidArgValue),
				"arg %d: workgroup memory is declared in WGSL source, not bound", i)
		case driver.ArgScalar:
			if len(arg.Value) == 0 {
				return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidArgValue)
			}
		}
	}
	return nil
}

func (q *cmdQueue) EnqueueKernel(k driver.Kernel, r driver.Range, args []driver.BoundArg, waits []driver.Event) (driver.Event, error) {
	kk, ok := k.(*kernel)
	if !ok {
		return nil, driver.Errf("webgpu: enqueue", driver.StatusInvalidKernel)
	}
	if err := validateSubmission(kk, r, args); err != nil {
		return nil, err
	}

	boundArgs := append([]driver.BoundArg(nil), args...)
	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		ev.complete(q.dispatch(kk, r, boundArgs))
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// dispatch encodes one compute pass and submits it. Scalar arguments become
// transient uniform buffers that live until the submit is accepted; buffer
// arguments bind positionally, argument i at @binding(i) of @group(0).
func (q *cmdQueue) dispatch(k *kernel, r driver.Range, args []driver.BoundArg) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Wrapf(driver.Errf("webgpu: enqueue "+k.name, driver.StatusOutOfResources),
				"native dispatch failed: %v", v)
		}
	}()

	var temps []*wgpu.Buffer
	defer func() {
		for _, t := range temps {
			t.Release()
		}
	}()

	entries := make([]wgpu.BindGroupEntry, 0, len(args))
	for i, arg := range args {
		switch arg.Kind {
		case driver.ArgBuffer:
			gb := arg.Buffer.(*gpuBuffer)
			buf, herr := gb.handle()
			if herr != nil {
				return herr
			}
			entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, roundUp(uint64(gb.size))))
		case driver.ArgScalar:
			ubuf, size := q.dev.newUniform(arg.Value)
			if ubuf == nil {
				return driver.Errf("webgpu: enqueue "+k.name, driver.StatusMemAllocationFailure)
			}
			temps = append(temps, ubuf)
			entries = append(entries, wgpu.BufferBindingEntry(uint32(i), ubuf, 0, size))
		}
	}

	bindGroup := q.dev.wdev.CreateBindGroupSimple(k.pipeline.GetBindGroupLayout(0), entries)
	if bindGroup == nil {
		return driver.Errf("webgpu: enqueue "+k.name, driver.StatusInvalidKernelArgs)
	}
	defer bindGroup.Release()

	// Tail groups past a non-divisible global size rely on the shader's
	// bounds guard.
	groups := [3]uint32{1, 1, 1}
	for d := 0; d < r.Dims(); d++ {
		groups[d] = uint32((r.Global[d] + k.group[d] - 1) / k.group[d])
	}

	encoder := q.dev.wdev.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(groups[0], groups[1], groups[2])
	pass.End()
	q.dev.wq.Submit(encoder.Finish(nil))
	return nil
}

// newUniform uploads value into a fresh uniform buffer padded to the 16-byte
// binding alignment, returning the buffer and its padded size.
func (d *device) newUniform(value []byte) (*wgpu.Buffer, uint64) {
	size := (uint64(len(value)) + 15) &^ 15
	buf := d.wdev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	if buf == nil {
		return nil, 0
	}
	ptr := buf.GetMappedRange(0, size)
	copy(unsafe.Slice((*byte)(ptr), size), value)
	buf.Unmap()
	return buf, size
}

func (q *cmdQueue) EnqueueRead(b driver.Buffer, dst []byte, waits []driver.Event) (driver.Event, error) {
	gb, ok := b.(*gpuBuffer)
	if !ok {
		return nil, driver.Errf("webgpu: read", driver.StatusInvalidMemObject)
	}
	if len(dst) > gb.Size() {
		return nil, driver.Errf("webgpu: read", driver.StatusInvalidValue)
	}

	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		ev.complete(q.read(gb, dst))
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// read stages the device buffer into a map-readable copy and blocks on the
// map, so completion means dst holds the data.
func (q *cmdQueue) read(gb *gpuBuffer, dst []byte) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Wrapf(driver.Errf("webgpu: read", driver.StatusMapFailure),
				"native read failed: %v", v)
		}
	}()

	src, err := gb.handle()
	if err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}

	size := roundUp(uint64(len(dst)))
	staging := q.dev.wdev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	if staging == nil {
		return driver.Errf("webgpu: read", driver.StatusMemAllocationFailure)
	}
	defer staging.Release()

	encoder := q.dev.wdev.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	q.dev.wq.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(q.dev.wdev, wgpu.MapModeRead, 0, size); err != nil {
		return errors.Wrap(driver.Errf("webgpu: read", driver.StatusMapFailure), err.Error())
	}
	ptr := staging.GetMappedRange(0, size)
	copy(dst, unsafe.Slice((*byte)(ptr), size))
	staging.Unmap()
	return nil
}

func (q *cmdQueue) EnqueueWrite(b driver.Buffer, src []byte, waits []driver.Event) (driver.Event, error) {
	gb, ok := b.(*gpuBuffer)
	if !ok {
		return nil, driver.Errf("webgpu: write", driver.StatusInvalidMemObject)
	}
	if len(src) > gb.Size() {
		return nil, driver.Errf("webgpu: write", driver.StatusInvalidValue)
	}

	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		ev.complete(q.write(gb, src))
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// write stages src into a mapped-at-creation buffer and submits the copy.
// The native queue orders the copy before any later submission, so the event
// may fire once the submit is accepted.
func (q *cmdQueue) write(gb *gpuBuffer, src []byte) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Wrapf(driver.Errf("webgpu: write", driver.StatusMapFailure),
				"native write failed: %v", v)
		}
	}()

	dst, err := gb.handle()
	if err != nil {
		return err
	}
	if len(src) == 0 {
		return nil
	}

	size := roundUp(uint64(len(src)))
	staging := q.dev.wdev.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	if staging == nil {
		return driver.Errf("webgpu: write", driver.StatusMemAllocationFailure)
	}
	defer staging.Release()

	ptr := staging.GetMappedRange(0, size)
	copy(unsafe.Slice((*byte)(ptr), size), src)
	staging.Unmap()

	encoder := q.dev.wdev.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, dst, 0, size)
	q.dev.wq.Submit(encoder.Finish(nil))
	return nil
}

// Finish blocks until every prior submission has been dispatched to the
// native queue.
func (q *cmdQueue) Finish() error {
	marker := make(chan struct{})
	if err := q.submit(func() { close(marker) }); err != nil {
		return err
	}
	<-marker
	return nil
}

// Release drains the queue and stops its dispatcher. Further submissions
// fail with INVALID_COMMAND_QUEUE.
func (q *cmdQueue) Release() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.subs)
	q.mu.Unlock()
	<-q.done
}
