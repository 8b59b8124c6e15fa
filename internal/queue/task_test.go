package queue

import (
	"reflect"
	"testing"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/hostbuf"
)

func TestReadbackPartition(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.Compile("testdata/matrix.cl", "matrix_mul", "-D BLOCK_SIZE=2 -D VAR_TYPE=int")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	a := hostbuf.New[int32](4)
	b := hostbuf.New[int32](4)
	c := hostbuf.New[int32](4)
	d := hostbuf.New[int32](4)

	task := NewTask(k,
		In(a),             // 0
		Scalar(int32(2)),  // 1
		Out(b),            // 2
		Local[int32](16),  // 3
		InOut(c),          // 4
		In(d),             // 5
		Out(a),            // 6
	)
	if got := task.NumArgs(); got != 7 {
		t.Errorf("NumArgs = %d, want 7", got)
	}
	want := []int{2, 4, 6}
	if got := task.ReadbackIndices(); !reflect.DeepEqual(got, want) {
		t.Errorf("ReadbackIndices = %v, want %v", got, want)
	}
	if got := task.KernelName(); got != "matrix_mul" {
		t.Errorf("KernelName = %q, want matrix_mul", got)
	}
}

func TestReadbackSkipsDeviceBuffers(t *testing.T) {
	q := newTestQueue(t)
	k, err := q.Compile("testdata/vector.cl", "vector_add", "")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	dev, err := NewDeviceBuffer[int32](q, 8, driver.ReadWrite)
	if err != nil {
		t.Fatalf("NewDeviceBuffer failed: %v", err)
	}
	defer dev.Release()

	host := hostbuf.New[int32](8)
	task := NewTask(k, BufferArg(dev, DirIn), BufferArg(dev, DirOut), Out(host))
	want := []int{2}
	if got := task.ReadbackIndices(); !reflect.DeepEqual(got, want) {
		t.Errorf("ReadbackIndices = %v, want %v (device buffers have no host side)", got, want)
	}
}

func TestDirectionStrings(t *testing.T) {
	cases := map[Direction]string{
		DirIn:        "in",
		DirOut:       "out",
		DirInOut:     "inout",
		DirLocal:     "local",
		DirScalar:    "scalar",
		Direction(0): "invalid",
	}
	for d, want := range cases {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(d), got, want)
		}
	}
}

func TestNewArgKeepsDirection(t *testing.T) {
	b := hostbuf.New[float32](3)
	for _, dir := range []Direction{DirIn, DirOut, DirInOut} {
		a := NewArg(b.Raw(), dir)
		if a.Dir() != dir {
			t.Errorf("NewArg(.., %v).Dir() = %v", dir, a.Dir())
		}
		if !a.hostBacked() {
			t.Errorf("NewArg(.., %v) lost its host backing", dir)
		}
	}
}
