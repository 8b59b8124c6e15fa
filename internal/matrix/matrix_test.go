package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpuq/gpuq/internal/driver/cpu"
	"github.com/gpuq/gpuq/internal/queue"
)

func newTestQueue(t *testing.T) *queue.Queue {
	t.Helper()
	drv, err := cpu.New("")
	require.NoError(t, err)
	q, err := queue.NewOn(drv, "", "")
	require.NoError(t, err)
	t.Cleanup(q.Release)
	return q
}

func iota32(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i + 1)
	}
	return out
}

func TestNewZeroed(t *testing.T) {
	m := New[int32](2, 3)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 6, m.Len())
	assert.False(t, m.IsNil())
	for _, v := range m.Data() {
		assert.Zero(t, v)
	}
}

func TestFromSlice(t *testing.T) {
	vals := []int32{1, 2, 3, 4, 5, 6}
	m, err := FromSlice(2, 3, vals)
	require.NoError(t, err)
	assert.Equal(t, int32(6), m.At(1, 2))

	// The matrix owns a copy.
	vals[0] = 99
	assert.Equal(t, int32(1), m.At(0, 0))

	_, err = FromSlice(2, 3, vals[:4])
	assert.Error(t, err)
}

func TestAtSet(t *testing.T) {
	m := New[float32](3, 3)
	m.Set(1, 2, 2.5)
	assert.Equal(t, float32(2.5), m.At(1, 2))
	assert.Equal(t, float32(2.5), m.Data()[1*3+2])
}

func TestTranspose(t *testing.T) {
	m, err := FromSlice(2, 3, []int32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	tr := m.Transpose()
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, 2, tr.Cols())
	want, err := FromSlice(3, 2, []int32{1, 4, 2, 5, 3, 6})
	require.NoError(t, err)
	assert.True(t, tr.Equal(want))
}

func TestEqual(t *testing.T) {
	a, _ := FromSlice(2, 2, []int32{1, 2, 3, 4})
	b, _ := FromSlice(2, 2, []int32{1, 2, 3, 4})
	c, _ := FromSlice(2, 2, []int32{1, 2, 3, 5})
	d, _ := FromSlice(1, 4, []int32{1, 2, 3, 4})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestMulHost(t *testing.T) {
	a, _ := FromSlice(2, 3, []int32{1, 2, 3, 4, 5, 6})
	b, _ := FromSlice(3, 2, []int32{7, 8, 9, 10, 11, 12})
	got, err := a.MulHost(b)
	require.NoError(t, err)
	want, _ := FromSlice(2, 2, []int32{58, 64, 139, 154})
	assert.True(t, got.Equal(want), "got %v", got)

	_, err = a.MulHost(a)
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	m, _ := FromSlice(2, 2, []int32{1, 2, 3, 4})
	s := m.String()
	assert.Contains(t, s, "2x2")
	assert.Contains(t, s, "int32")
	assert.Contains(t, s, "[1 2]")

	big := New[int32](20, 20)
	assert.Contains(t, big.String(), "...")
}

func TestDeviceAddSub(t *testing.T) {
	q := newTestQueue(t)

	a, err := FromSlice(3, 4, iota32(12))
	require.NoError(t, err)
	b, err := FromSlice(3, 4, iota32(12))
	require.NoError(t, err)

	futAdd, err := Add(q, a, b)
	require.NoError(t, err)
	sum, err := futAdd.Get()
	require.NoError(t, err)
	for i, v := range sum.Data() {
		assert.Equal(t, int32(2*(i+1)), v, "sum[%d]", i)
	}

	futSub, err := Sub(q, a, b)
	require.NoError(t, err)
	diff, err := futSub.Get()
	require.NoError(t, err)
	for i, v := range diff.Data() {
		assert.Zero(t, v, "diff[%d]", i)
	}
}

func TestDeviceAddShapeMismatch(t *testing.T) {
	q := newTestQueue(t)
	a := New[int32](2, 3)
	b := New[int32](3, 2)
	_, err := Add(q, a, b)
	assert.Error(t, err)

	dst := New[int32](4, 4)
	_, err = AddInto(q, dst, a, a)
	assert.Error(t, err)
}

func TestDeviceMulGold(t *testing.T) {
	q := newTestQueue(t)

	a, err := FromSlice(4, 4, iota32(16))
	require.NoError(t, err)
	b, err := FromSlice(4, 8, iota32(32))
	require.NoError(t, err)

	fut, err := Mul(q, a, b)
	require.NoError(t, err)
	got, err := fut.Get()
	require.NoError(t, err)

	want, err := a.MulHost(b)
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "device product diverged from the host reference:\n%v\nvs\n%v", got, want)
	assert.Equal(t, int32(170), got.At(0, 0))
	assert.Equal(t, int32(1200), got.At(3, 7))
}

func TestDeviceMulFloat(t *testing.T) {
	q := newTestQueue(t)

	vals := make([]float32, 6*6)
	for i := range vals {
		vals[i] = float32(i) * 0.5
	}
	a, err := FromSlice(6, 6, vals)
	require.NoError(t, err)

	fut, err := Mul(q, a, a)
	require.NoError(t, err)
	got, err := fut.Get()
	require.NoError(t, err)

	want, err := a.MulHost(a)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestDeviceMulShapeMismatch(t *testing.T) {
	q := newTestQueue(t)
	a := New[int32](2, 3)
	_, err := Mul(q, a, a)
	assert.Error(t, err)
}

func TestDeviceChain(t *testing.T) {
	q := newTestQueue(t)

	a, err := FromSlice(4, 4, iota32(16))
	require.NoError(t, err)
	b, err := FromSlice(4, 4, iota32(16))
	require.NoError(t, err)
	c, err := FromSlice(4, 4, iota32(16))
	require.NoError(t, err)

	for run := 0; run < 10; run++ {
		sum := New[int32](4, 4)
		futSum, err := AddInto(q, sum, a, b)
		require.NoError(t, err)

		// The product consumes sum with only the future as ordering.
		futProd, err := Mul(q, sum, c, futSum)
		require.NoError(t, err)
		got, err := futProd.Get()
		require.NoError(t, err)

		hostSum := New[int32](4, 4)
		for i := range hostSum.Data() {
			hostSum.Data()[i] = a.Data()[i] + b.Data()[i]
		}
		want, err := hostSum.MulHost(c)
		require.NoError(t, err)
		require.True(t, got.Equal(want), "run %d: chained product diverged", run)
	}
}

func TestBlockSize(t *testing.T) {
	assert.Equal(t, 4, blockSize(1024, 4, 4, 8))
	assert.Equal(t, 16, blockSize(1024, 32, 64, 16))
	assert.Equal(t, 8, blockSize(64, 32, 64, 16)) // 16x16 exceeds the group limit
	assert.Equal(t, 1, blockSize(1024, 7, 4, 8))
	assert.Equal(t, 2, blockSize(1024, 2, 6, 10))
}
