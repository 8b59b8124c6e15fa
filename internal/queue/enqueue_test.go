package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/driver/cpu"
	"github.com/gpuq/gpuq/internal/hostbuf"
)

func init() {
	cpu.RegisterKernel("qtest_copy", cpu.Impl{
		NumArgs: 2,
		Run: func(wi *cpu.Item) {
			src := cpu.Arg[int32](wi, 0)
			dst := cpu.Arg[int32](wi, 1)
			i := wi.GlobalID(0)
			dst[i] = src[i]
		},
	})
	cpu.RegisterKernel("qtest_fill_two", cpu.Impl{
		NumArgs: 3,
		Run: func(wi *cpu.Item) {
			first := cpu.Arg[int32](wi, 0)
			bias := cpu.ScalarArg[int32](wi, 1)
			second := cpu.Arg[int32](wi, 2)
			i := wi.GlobalID(0)
			first[i] = bias
			second[i] = 2 * bias
		},
	})
}

const copySrc = `__kernel void qtest_copy(__global const int* src, __global int* dst) { }`
const fillTwoSrc = `__kernel void qtest_fill_two(__global int* first, int bias, __global int* second) { }`

func TestVectorAdd1D(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.Compile("testdata/vector.cl", "vector_add", "-D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	const n = 1024
	a := hostbuf.New[int32](n)
	b := hostbuf.New[int32](n)
	c := hostbuf.New[int32](n)
	for i := 0; i < n; i++ {
		a.Data()[i] = int32(i)
		b.Data()[i] = int32(n - i)
	}

	fut, err := q.Enqueue(NewTask(k, In(a), In(b), Out(c)), NewGrid(n))
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
		if v != n {
			t.Fatalf("out[%d] = %d, want %d", i, v, n)
		}
	}
	// The view aliases the caller's buffer; both see the refresh.
	if c.Data()[17] != n {
		t.Errorf("c[17] = %d, want %d", c.Data()[17], n)
	}
}

func TestElementwiseAdd2D(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.Compile("testdata/matrix.cl", "matrix_add", "-D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	const rows, cols = 3, 4
	n := rows * cols
	a := hostbuf.New[int32](n)
	b := hostbuf.New[int32](n)
	c := hostbuf.New[int32](n)
	for i := 0; i < n; i++ {
		a.Data()[i] = int32(i)
		b.Data()[i] = int32(n - i)
	}

	fut, err := q.Enqueue(NewTask(k, In(a), In(b), Out(c)), NewGrid(cols, rows))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := fut.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	for i, v := range c.Data() {
		if v != rows*cols {
			t.Fatalf("c[%d] = %d, want %d", i, v, rows*cols)
		}
	}
}

func TestRoundTripCopy(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.CompileSource("qtest-copy", copySrc, "qtest_copy", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	for _, n := range []int{0, 1, 1024} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			src := hostbuf.New[int32](n)
			dst := hostbuf.New[int32](n)
			for i := 0; i < n; i++ {
				src.Data()[i] = int32(3*i + 1)
			}

			fut, err := q.Enqueue(NewTask(k, In(src), Out(dst)), NewGrid(n))
			if err != nil {
				t.Fatalf("Enqueue failed: %v", err)
			}
			views, err := fut.Get()
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if n == 0 {
				if len(views) != 0 {
					t.Fatalf("len(views) = %d for an empty grid, want 0", len(views))
				}
				return
			}
			if len(views) != 1 {
				t.Fatalf("len(views) = %d, want 1", len(views))
			}
			for i := 0; i < n; i++ {
				if got, want := dst.Data()[i], src.Data()[i]; got != want {
					t.Fatalf("dst[%d] = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestTiledMatrixMul(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.Compile("testdata/matrix.cl", "matrix_mul", "-D BLOCK_SIZE=2 -D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	m1 := hostbuf.New[int32](4 * 4)
	for i := range m1.Data() {
		m1.Data()[i] = int32(i + 1)
	}
	m2 := hostbuf.New[int32](4 * 8)
	for i := range m2.Data() {
		m2.Data()[i] = int32(i + 1)
	}
	res := hostbuf.New[int32](4 * 8)

	task := NewTask(k,
		In(m1), In(m2), Out(res),
		Local[int32](2*2), Local[int32](2*2),
		Scalar(int32(4)), Scalar(int32(8)),
	)
	fut, err := q.Enqueue(task, NewGrid(8, 4).WithLocal(2, 2))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := fut.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}

	gold := []int32{
		170, 180, 190, 200, 210, 220, 230, 240,
		378, 404, 430, 456, 482, 508, 534, 560,
		586, 628, 670, 712, 754, 796, 838, 880,
		794, 852, 910, 968, 1026, 1084, 1142, 1200,
	}
	for i, want := range gold {
		if got := res.Data()[i]; got != want {
			t.Fatalf("res[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestDependencyOrdering(t *testing.T) {
	drv := cpuDriver(t)
	q1, err := NewOn(drv, "", "")
	if err != nil {
		t.Fatalf("NewOn failed: %v", err)
	}
	t.Cleanup(q1.Release)
	q2, err := NewOn(drv, "", "")
	if err != nil {
		t.Fatalf("NewOn failed: %v", err)
	}
	t.Cleanup(q2.Release)

	k1, err := q1.CompileSource("qtest-copy", copySrc, "qtest_copy", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}
	k2, err := q2.CompileSource("qtest-copy", copySrc, "qtest_copy", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	const n = 512
	src := hostbuf.New[int32](n)
	mid := hostbuf.New[int32](n)
	dst := hostbuf.New[int32](n)

	// X runs on q1 and writes mid; Y runs on q2, reads mid, and must see
	// X's output on every run because X's future gates it.
	for run := 0; run < 40; run++ {
		for i := 0; i < n; i++ {
			src.Data()[i] = int32(run*1000 + i)
		}
		futX, err := q1.Enqueue(NewTask(k1, In(src), Out(mid)), NewGrid(n))
		if err != nil {
			t.Fatalf("run %d: enqueue X failed: %v", run, err)
		}
		futY, err := q2.Enqueue(NewTask(k2, In(mid), Out(dst)), NewGrid(n), futX)
		if err != nil {
			t.Fatalf("run %d: enqueue Y failed: %v", run, err)
		}
		if err := futY.Wait(); err != nil {
			t.Fatalf("run %d: wait Y failed: %v", run, err)
		}
		for i := 0; i < n; i++ {
			if got, want := dst.Data()[i], int32(run*1000+i); got != want {
				t.Fatalf("run %d: dst[%d] = %d, want %d", run, i, got, want)
			}
		}
	}
}

func TestReadbackOrderFollowsArgs(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.CompileSource("qtest-fill-two", fillTwoSrc, "qtest_fill_two", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	const n = 16
	first := hostbuf.New[int32](n)
	second := hostbuf.New[int32](n)

	fut, err := q.Enqueue(NewTask(k, Out(first), Scalar(int32(21)), Out(second)), NewGrid(n))
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	views, err := fut.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	v0, err := hostbuf.View[int32](views[0])
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	v1, err := hostbuf.View[int32](views[1])
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if v0.Data()[0] != 21 || v1.Data()[0] != 42 {
		t.Errorf("views = (%d, %d), want (21, 42): read-backs must keep argument order",
			v0.Data()[0], v1.Data()[0])
	}
}

func TestDroppedFutureStillRefreshes(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.CompileSource("qtest-copy", copySrc, "qtest_copy", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	const n = 64
	src := hostbuf.New[int32](n)
	dst := hostbuf.New[int32](n)
	for i := 0; i < n; i++ {
		src.Data()[i] = int32(i + 7)
	}

	if _, err := q.Enqueue(NewTask(k, In(src), Out(dst)), NewGrid(n)); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	// The future is gone; draining the queue must still complete the
	// read-back safely.
	if err := q.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	for i := 0; i < n; i++ {
		if got, want := dst.Data()[i], int32(i+7); got != want {
			t.Fatalf("dst[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestEnqueueGridValidation(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.CompileSource("qtest-copy", copySrc, "qtest_copy", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}
	buf := hostbuf.New[int32](8)
	task := NewTask(k, In(buf), Out(buf))

	if _, err := q.Enqueue(task, Grid{}); err == nil {
		t.Error("Enqueue with a dimensionless grid succeeded, want error")
	}
	if _, err := q.Enqueue(task, NewGrid(2, 2, 2, 2)); err == nil {
		t.Error("Enqueue with a 4D grid succeeded, want error")
	}
}

func TestEnqueueRejectsInvalidDeps(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.CompileSource("qtest-copy", copySrc, "qtest_copy", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}
	buf := hostbuf.New[int32](8)
	task := NewTask(k, In(buf), Out(buf))

	consumed := Immediate([]hostbuf.Raw{})
	if _, err := consumed.Get(); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := q.Enqueue(task, NewGrid(8), consumed); !errors.Is(err, ErrInvalidSignal) {
		t.Errorf("Enqueue with consumed dep = %v, want ErrInvalidSignal", err)
	}
}

func TestEnqueueRejectsEmptyArg(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.CompileSource("qtest-copy", copySrc, "qtest_copy", "")
	if err != nil {
		t.Fatalf("CompileSource failed: %v", err)
	}

	var empty hostbuf.Buffer[int32]
	task := NewTask(k, In(empty), Out(hostbuf.New[int32](8)))
	if _, err := q.Enqueue(task, NewGrid(8)); err == nil {
		t.Error("Enqueue with an unbacked argument succeeded, want error")
	}

	task = NewTask(k, Arg{}, Out(hostbuf.New[int32](8)))
	if _, err := q.Enqueue(task, NewGrid(8)); err == nil {
		t.Error("Enqueue with a zero Arg succeeded, want error")
	}
}

func TestDeviceBuffersAndCopies(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.Compile("testdata/vector.cl", "vector_add", "-D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	const n = 256
	a := hostbuf.New[int32](n)
	b := hostbuf.New[int32](n)
	c := hostbuf.New[int32](n)
	for i := 0; i < n; i++ {
		a.Data()[i] = int32(i)
		b.Data()[i] = int32(n - i)
	}

	da, err := NewDeviceBufferFrom(q, a, driver.ReadOnly)
	if err != nil {
		t.Fatalf("NewDeviceBufferFrom failed: %v", err)
	}
	db, err := NewDeviceBuffer[int32](q, n, driver.ReadOnly)
	if err != nil {
		t.Fatalf("NewDeviceBuffer failed: %v", err)
	}
	dc, err := NewDeviceBuffer[int32](q, n, driver.ReadWrite)
	if err != nil {
		t.Fatalf("NewDeviceBuffer failed: %v", err)
	}

	futB, err := CopyToDevice(q, db, b)
	if err != nil {
		t.Fatalf("CopyToDevice failed: %v", err)
	}
	task := NewTask(k, BufferArg(da, DirIn), BufferArg(db, DirIn), BufferArg(dc, DirOut))
	futK, err := q.Enqueue(task, NewGrid(n), futB)
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	views, err := futK.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("len(views) = %d for device-only outputs, want 0", len(views))
	}

	futC, err := CopyFromDevice(q, c, dc)
	if err != nil {
		t.Fatalf("CopyFromDevice failed: %v", err)
	}
	out, err := futC.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	for i, v := range out.Data() {
		if v != n {
			t.Fatalf("c[%d] = %d, want %d", i, v, n)
		}
	}

	if err := q.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	da.Release()
	db.Release()
	dc.Release()
}

func TestCopyTransferChecks(t *testing.T) {
	q := newTestQueue(t)

	dev, err := NewDeviceBuffer[int32](q, 8, driver.ReadWrite)
	if err != nil {
		t.Fatalf("NewDeviceBuffer failed: %v", err)
	}
	defer dev.Release()

	if _, err := CopyToDevice(q, dev, hostbuf.New[int32](4)); err == nil {
		t.Error("size-mismatched CopyToDevice succeeded, want error")
	}
	if _, err := CopyFromDevice(q, hostbuf.New[float32](8), dev); err == nil {
		t.Error("kind-mismatched CopyFromDevice succeeded, want error")
	}
	if _, err := CopyToDevice(q, DeviceBuffer{}, hostbuf.New[int32](8)); err == nil {
		t.Error("CopyToDevice with a zero device buffer succeeded, want error")
	}

	host := hostbuf.New[int32](8)
	fut, err := CopyToDevice(q, dev, host)
	if err != nil {
		t.Fatalf("CopyToDevice failed: %v", err)
	}
	back, err := CopyFromDevice(q, host, dev, fut)
	if err != nil {
		t.Fatalf("CopyFromDevice failed: %v", err)
	}
	if err := back.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
}
