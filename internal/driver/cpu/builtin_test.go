package cpu

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/gpuq/gpuq/internal/driver"
)

const matrixAddSrc = `
__kernel void matrix_add(__global const VAR_TYPE* a,
                         __global const VAR_TYPE* b,
                         __global VAR_TYPE* c) {
  int col = get_global_id(0), row = get_global_id(1);
  int idx = row * get_global_size(0) + col;
  c[idx] = a[idx] + b[idx];
}
`

func f32Bytes(vals []float32) []byte {
	out := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.NativeEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func bytesF32(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(data[4*i:]))
	}
	return out
}

func TestMatrixAdd2D(t *testing.T) {
	dev := testDevice(t)

	rows, cols := 3, 4
	n := rows * cols
	a := make([]int32, n)
	b := make([]int32, n)
	for i := range a {
		a[i] = int32(i)
		b[i] = int32(2 * i)
	}

	prog, err := dev.NewProgram(matrixAddSrc, "-D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	k, err := prog.Kernel("matrix_add")
	if err != nil {
		t.Fatalf("kernel lookup failed: %v", err)
	}

	ba, _ := dev.NewBuffer(4*n, driver.ReadOnly, i32Bytes(a))
	bb, _ := dev.NewBuffer(4*n, driver.ReadOnly, i32Bytes(b))
	bc, _ := dev.NewBuffer(4*n, driver.WriteOnly, nil)

	q, _ := dev.NewQueue()
	defer q.Release()

	args := []driver.BoundArg{
		driver.BufferBinding(ba),
		driver.BufferBinding(bb),
		driver.BufferBinding(bc),
	}
	r := driver.Range{Global: []int{cols, rows}}
	if _, err := q.EnqueueKernel(k, r, args, nil); err != nil {
		t.Fatalf("EnqueueKernel failed: %v", err)
	}

	out := make([]byte, 4*n)
	ev, _ := q.EnqueueRead(bc, out, nil)
	if err := ev.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	for i, v := range bytesI32(out) {
		if v != int32(3*i) {
			t.Fatalf("c[%d] = %d, want %d", i, v, 3*i)
		}
	}
}

func TestVectorSubFloat(t *testing.T) {
	dev := testDevice(t)

	n := 33 // deliberately not a multiple of anything
	a := make([]float32, n)
	b := make([]float32, n)
	for i := range a {
		a[i] = float32(i) + 0.5
		b[i] = float32(i)
	}

	prog, err := dev.NewProgram(`__kernel void vector_sub(__global const VAR_TYPE* a,
		__global const VAR_TYPE* b, __global VAR_TYPE* c) { }`, "-D VAR_TYPE=float")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	k, _ := prog.Kernel("vector_sub")

	ba, _ := dev.NewBuffer(4*n, driver.ReadOnly, f32Bytes(a))
	bb, _ := dev.NewBuffer(4*n, driver.ReadOnly, f32Bytes(b))
	bc, _ := dev.NewBuffer(4*n, driver.WriteOnly, nil)

	q, _ := dev.NewQueue()
	defer q.Release()

	args := []driver.BoundArg{
		driver.BufferBinding(ba),
		driver.BufferBinding(bb),
		driver.BufferBinding(bc),
	}
	if _, err := q.EnqueueKernel(k, driver.Range{Global: []int{n}}, args, nil); err != nil {
		t.Fatalf("EnqueueKernel failed: %v", err)
	}

	out := make([]byte, 4*n)
	ev, _ := q.EnqueueRead(bc, out, nil)
	if err := ev.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	for i, v := range bytesF32(out) {
		if v != 0.5 {
			t.Fatalf("c[%d] = %g, want 0.5", i, v)
		}
	}
}

func TestVarTypeDefaultsToInt(t *testing.T) {
	dev := testDevice(t)
	// No -D VAR_TYPE in the options: int is assumed.
	c := func() []int32 {
		prog, err := dev.NewProgram(vectorAddSrc, "")
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		k, _ := prog.Kernel("vector_add")

		n := 16
		a := make([]int32, n)
		for i := range a {
			a[i] = int32(i)
		}
		ba, _ := dev.NewBuffer(4*n, driver.ReadOnly, i32Bytes(a))
		bb, _ := dev.NewBuffer(4*n, driver.ReadOnly, i32Bytes(a))
		bc, _ := dev.NewBuffer(4*n, driver.WriteOnly, nil)

		q, _ := dev.NewQueue()
		defer q.Release()

		args := []driver.BoundArg{
			driver.BufferBinding(ba),
			driver.BufferBinding(bb),
			driver.BufferBinding(bc),
		}
		if _, err := q.EnqueueKernel(k, driver.Range{Global: []int{n}}, args, nil); err != nil {
			t.Fatalf("EnqueueKernel failed: %v", err)
		}
		out := make([]byte, 4*n)
		ev, _ := q.EnqueueRead(bc, out, nil)
		if err := ev.Wait(); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		return bytesI32(out)
	}()

	for i, v := range c {
		if v != int32(2*i) {
			t.Fatalf("c[%d] = %d, want %d", i, v, 2*i)
		}
	}
}

func TestMatMulRejectsBadSetup(t *testing.T) {
	dev := testDevice(t)
	prog, err := dev.NewProgram(matrixMulSrc, "-D BLOCK_SIZE=2 -D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	k, _ := prog.Kernel("matrix_mul")

	q, _ := dev.NewQueue()
	defer q.Release()

	m1 := make([]int32, 16)
	m2 := make([]int32, 32)
	b1, _ := dev.NewBuffer(4*len(m1), driver.ReadOnly, i32Bytes(m1))
	b2, _ := dev.NewBuffer(4*len(m2), driver.ReadOnly, i32Bytes(m2))
	bres, _ := dev.NewBuffer(4*32, driver.WriteOnly, nil)

	makeArgs := func(localBytes int, m1Cols int32) []driver.BoundArg {
		return []driver.BoundArg{
			driver.BufferBinding(b1),
			driver.BufferBinding(b2),
			driver.BufferBinding(bres),
			driver.LocalBinding(localBytes),
			driver.LocalBinding(localBytes),
			driver.ScalarBinding(scalarI32(m1Cols)),
			driver.ScalarBinding(scalarI32(8)),
		}
	}
	r := driver.Range{Global: []int{8, 4}, Local: []int{2, 2}}

	// Local scratch below one tile.
	ev, err := q.EnqueueKernel(k, r, makeArgs(4, 4), nil)
	if err == nil {
		err = ev.Wait()
	}
	if err == nil {
		t.Error("undersized local scratch accepted, want error")
	}

	// Shared dimension not divisible by the block size.
	ev, err = q.EnqueueKernel(k, r, makeArgs(2*2*4, 5), nil)
	if err == nil {
		err = ev.Wait()
	}
	if err == nil {
		t.Error("indivisible m1_cols accepted, want error")
	}

	// A 1D range for a tiled 2D kernel.
	ev, err = q.EnqueueKernel(k, driver.Range{Global: []int{32}, Local: []int{4}}, makeArgs(2*2*4, 4), nil)
	if err == nil {
		err = ev.Wait()
	}
	if err == nil {
		t.Error("1D range accepted, want error")
	}
}

func TestRegisteredKernelsListed(t *testing.T) {
	names := RegisteredKernels()
	want := map[string]bool{
		"vector_add": false, "vector_sub": false,
		"matrix_add": false, "matrix_sub": false,
		"matrix_mul": false,
	}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("RegisteredKernels() is missing %q", n)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("RegisteredKernels() not sorted at %d: %q >= %q", i, names[i-1], names[i])
			break
		}
	}
}

func TestPrepareErrorSurfacesOnEvent(t *testing.T) {
	dev := testDevice(t)
	prog, err := dev.NewProgram(vectorAddSrc, "-D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	k, _ := prog.Kernel("vector_add")

	q, _ := dev.NewQueue()
	defer q.Release()

	// Buffers sized for 4 elements but a global range of 8.
	small, _ := dev.NewBuffer(16, driver.ReadWrite, nil)
	args := []driver.BoundArg{
		driver.BufferBinding(small),
		driver.BufferBinding(small),
		driver.BufferBinding(small),
	}
	ev, err := q.EnqueueKernel(k, driver.Range{Global: []int{8}}, args, nil)
	if err != nil {
		t.Fatalf("EnqueueKernel failed: %v", err)
	}
	if err := ev.Wait(); err == nil || !strings.Contains(err.Error(), "needs") {
		t.Errorf("Wait() = %v, want a buffer size complaint", err)
	}
}
