package matrix

import (
	_ "embed"
	"fmt"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/hostbuf"
	"github.com/gpuq/gpuq/internal/queue"
)

// Source is the kernel text the device operations compile. It is embedded
// so the matrix layer works without files on disk; drivers receive it
// through the queue's source-identity cache under the id "matrix.cl".
//
//go:embed kernels/matrix.cl
var Source string

const sourceID = "matrix.cl"

// Add dispatches the elementwise sum of a and b on q after deps and
// returns a future over a freshly allocated result.
func Add[T Number](q *queue.Queue, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return AddInto(q, New[T](a.rows, a.cols), a, b, deps...)
}

// AddInto is Add with a caller-provided destination. Holding the
// destination handle before the dispatch resolves is what lets a later
// operation consume it with only a future as the ordering link.
func AddInto[T Number](q *queue.Queue, dst, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return elementwise(q, "matrix_add", dst, a, b, deps)
}

// Sub dispatches the elementwise difference of a and b on q after deps
// and returns a future over a freshly allocated result.
func Sub[T Number](q *queue.Queue, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return SubInto(q, New[T](a.rows, a.cols), a, b, deps...)
}

// SubInto is Sub with a caller-provided destination.
func SubInto[T Number](q *queue.Queue, dst, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return elementwise(q, "matrix_sub", dst, a, b, deps)
}

func elementwise[T Number](q *queue.Queue, entry string, dst, a, b Matrix[T], deps []queue.Waiter) (*queue.Future[Matrix[T]], error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, errors.Errorf("matrix: %s of %dx%d and %dx%d", entry, a.rows, a.cols, b.rows, b.cols)
	}
	if dst.rows != a.rows || dst.cols != a.cols {
		return nil, errors.Errorf("matrix: %s destination is %dx%d, want %dx%d", entry, dst.rows, dst.cols, a.rows, a.cols)
	}
	options := fmt.Sprintf("-D VAR_TYPE=%s", hostbuf.KindOf[T]().CLName())
	k, err := q.CompileSource(sourceID, Source, entry, options)
	if err != nil {
		return nil, err
	}
	task := queue.NewTask(k, queue.In(a.data), queue.In(b.data), queue.Out(dst.data))
	fut, err := q.Enqueue(task, queue.NewGrid(a.cols, a.rows), deps...)
	if err != nil {
		return nil, err
	}
	return queue.WithResult(fut, dst), nil
}

// Mul dispatches the tiled product of a (m x k) and b (k x n) on q after
// deps and returns a future over a freshly allocated m x n result. The
// tile size is the largest power of two dividing every extent that still
// fits the device's work-group limit.
func Mul[T Number](q *queue.Queue, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return MulInto(q, New[T](a.rows, b.cols), a, b, deps...)
}

// MulInto is Mul with a caller-provided destination.
func MulInto[T Number](q *queue.Queue, dst, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	if a.cols != b.rows {
		return nil, errors.Errorf("matrix: cannot multiply %dx%d by %dx%d", a.rows, a.cols, b.rows, b.cols)
	}
	if dst.rows != a.rows || dst.cols != b.cols {
		return nil, errors.Errorf("matrix: product destination is %dx%d, want %dx%d", dst.rows, dst.cols, a.rows, b.cols)
	}
	block := blockSize(q.Device().Info().MaxWorkGroupSize, a.rows, a.cols, b.cols)
	options := fmt.Sprintf("-D BLOCK_SIZE=%d -D VAR_TYPE=%s", block, hostbuf.KindOf[T]().CLName())
	k, err := q.CompileSource(sourceID, Source, "matrix_mul", options)
	if err != nil {
		return nil, err
	}
	task := queue.NewTask(k,
		queue.In(a.data), queue.In(b.data), queue.Out(dst.data),
		queue.Local[T](block*block), queue.Local[T](block*block),
		queue.Scalar(int32(a.cols)), queue.Scalar(int32(b.cols)),
	)
	grid := queue.NewGrid(b.cols, a.rows).WithLocal(block, block)
	fut, err := q.Enqueue(task, grid, deps...)
	if err != nil {
		return nil, err
	}
	return queue.WithResult(fut, dst), nil
}

func blockSize(maxGroup int, dims ...int) int {
	for _, b := range []int{16, 8, 4, 2} {
		if b*b > maxGroup {
			continue
		}
		ok := true
		for _, d := range dims {
			if d%b != 0 {
				ok = false
				break
			}
		}
		if ok {
			return b
		}
	}
	return 1
}
