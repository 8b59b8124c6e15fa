// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package queue_test

import (
	"testing"

	"github.com/gpuq/gpuq/driver"
	"github.com/gpuq/gpuq/driver/cpu"
	"github.com/gpuq/gpuq/hostbuf"
	"github.com/gpuq/gpuq/queue"
)

const vectorAddSrc = `
#ifndef VAR_TYPE
#define VAR_TYPE int
#endif

__kernel void vector_add(__global const VAR_TYPE *a,
                         __global const VAR_TYPE *b,
                         __global VAR_TYPE *c) {
  int i = get_global_id(0);
  c[i] = a[i] + b[i];
}
`

// TestWaiterInterface verifies that futures satisfy the dependency
// interface.
func TestWaiterInterface(_ *testing.T) {
	var _ queue.Waiter = (*queue.Future[int])(nil)
	var _ queue.Waiter = (*queue.Future[[]hostbuf.Raw])(nil)
}

// TestPublicDispatch exercises the whole dispatch surface: driver
// selection, source compilation, argument binding, grids and futures.
func TestPublicDispatch(t *testing.T) {
	drv, err := driver.Open(cpu.DriverName + ":threads=2")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	q, err := queue.NewOn(drv, "", "")
	if err != nil {
		t.Fatalf("NewOn failed: %v", err)
	}
	defer q.Release()

	k, err := q.CompileSource("vector.cl", vectorAddSrc, "vector_add", "-D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	const n = 256
	a := hostbuf.New[int32](n)
	b := hostbuf.New[int32](n)
	c := hostbuf.New[int32](n)
	for i := 0; i < n; i++ {
		a.Data()[i] = int32(i)
		b.Data()[i] = int32(2 * i)
	}

	task := queue.NewTask(k, queue.In(a), queue.In(b), queue.Out(c))
	fut, err := q.Enqueue(task, queue.NewGrid(n))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	views, err := fut.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len(views) = %d, want 1", len(views))
	}
	out, err := hostbuf.View[int32](views[0])
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	for i, v := range out.Data() {
		if v != int32(3*i) {
			t.Fatalf("out[%d] = %d, want %d", i, v, 3*i)
		}
	}

	// The future hands over its result exactly once.
	if _, err := fut.Get(); err != queue.ErrInvalidSignal {
		t.Errorf("second Get error = %v, want ErrInvalidSignal", err)
	}
}

// TestPublicDeviceBuffers exercises caller-managed device memory and the
// transfer functions.
func TestPublicDeviceBuffers(t *testing.T) {
	q, err := queue.NewOn(mustCPU(t), "", "")
	if err != nil {
		t.Fatalf("NewOn failed: %v", err)
	}
	defer q.Release()

	k, err := q.CompileSource("vector.cl", vectorAddSrc, "vector_add", "-D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	const n = 64
	host := hostbuf.New[int32](n)
	for i := 0; i < n; i++ {
		host.Data()[i] = int32(i + 1)
	}

	da, err := queue.NewDeviceBufferFrom(q, host, driver.ReadOnly)
	if err != nil {
		t.Fatalf("NewDeviceBufferFrom failed: %v", err)
	}
	defer da.Release()
	db, err := queue.NewDeviceBuffer[int32](q, n, driver.ReadOnly)
	if err != nil {
		t.Fatalf("NewDeviceBuffer failed: %v", err)
	}
	defer db.Release()
	dc, err := queue.NewDeviceBuffer[int32](q, n, driver.WriteOnly)
	if err != nil {
		t.Fatalf("NewDeviceBuffer failed: %v", err)
	}
	defer dc.Release()

	futB, err := queue.CopyToDevice(q, db, host)
	if err != nil {
		t.Fatalf("CopyToDevice failed: %v", err)
	}

	task := queue.NewTask(k,
		queue.BufferArg(da, queue.DirIn),
		queue.BufferArg(db, queue.DirIn),
		queue.BufferArg(dc, queue.DirOut),
	)
	futK, err := q.Enqueue(task, queue.NewGrid(n), futB)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	out := hostbuf.New[int32](n)
	futOut, err := queue.CopyFromDevice(q, out, dc, futK)
	if err != nil {
		t.Fatalf("CopyFromDevice failed: %v", err)
	}
	if _, err := futOut.Get(); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	for i, v := range out.Data() {
		if v != int32(2*(i+1)) {
			t.Fatalf("out[%d] = %d, want %d", i, v, 2*(i+1))
		}
	}
}

// TestPublicKernelRegistration exercises registering a Go kernel through
// the public cpu surface.
func TestPublicKernelRegistration(t *testing.T) {
	cpu.RegisterKernel("facade_scale", cpu.Impl{
		NumArgs: 2,
		Run: func(wi *cpu.Item) {
			data := cpu.Arg[int32](wi, 0)
			factor := cpu.ScalarArg[int32](wi, 1)
			data[wi.GlobalID(0)] *= factor
		},
	})

	found := false
	for _, name := range cpu.RegisteredKernels() {
		if name == "facade_scale" {
			found = true
		}
	}
	if !found {
		t.Fatal("facade_scale not listed by RegisteredKernels")
	}

	q, err := queue.NewOn(mustCPU(t), "", "")
	if err != nil {
		t.Fatalf("NewOn failed: %v", err)
	}
	defer q.Release()

	k, err := q.CompileSource("scale.cl",
		"__kernel void facade_scale(__global int *data, int factor) {}", "facade_scale", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	data := hostbuf.FromSlice([]int32{1, 2, 3, 4})
	fut, err := q.Enqueue(queue.NewTask(k, queue.InOut(data), queue.Scalar(int32(10))), queue.NewGrid(4))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, err := fut.Get(); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	for i, v := range data.Data() {
		if want := int32(10 * (i + 1)); v != want {
			t.Errorf("data[%d] = %d, want %d", i, v, want)
		}
	}
}

func mustCPU(t *testing.T) *cpu.Driver {
	t.Helper()
	drv, err := cpu.New("")
	if err != nil {
		t.Fatalf("cpu.New failed: %v", err)
	}
	return drv
}
