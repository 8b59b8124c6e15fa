// Package matrix provides a dense row-major matrix over the shared host
// buffers, with plain host operations and device-dispatched Add, Sub and
// Mul that chain through completion futures.
package matrix

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/hostbuf"
	"github.com/gpuq/gpuq/internal/parallel"
)

// Number covers the element types the device kernels do arithmetic on.
// Unlike hostbuf.Element it leaves out uint16 and the half-precision type
// built on it, whose Go value is a bit pattern that cannot be computed
// with directly.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Matrix is a rows x cols dense matrix stored row-major in a shared
// host buffer. Copies share the backing store.
type Matrix[T Number] struct {
	rows, cols int
	data       hostbuf.Buffer[T]
}

// New allocates a zeroed rows x cols matrix.
func New[T Number](rows, cols int) Matrix[T] {
	return Matrix[T]{rows: rows, cols: cols, data: hostbuf.New[T](rows * cols)}
}

// FromSlice builds a rows x cols matrix from row-major values, copying them.
func FromSlice[T Number](rows, cols int, vals []T) (Matrix[T], error) {
	if len(vals) != rows*cols {
		return Matrix[T]{}, errors.Errorf("matrix: %d values for a %dx%d matrix", len(vals), rows, cols)
	}
	return Matrix[T]{rows: rows, cols: cols, data: hostbuf.FromSlice(vals)}, nil
}

// Rows returns the row count.
func (m Matrix[T]) Rows() int { return m.rows }

// Cols returns the column count.
func (m Matrix[T]) Cols() int { return m.cols }

// Len returns the element count.
func (m Matrix[T]) Len() int { return m.rows * m.cols }

// IsNil reports whether the matrix has no backing store.
func (m Matrix[T]) IsNil() bool { return m.data.IsNil() }

// Data returns the row-major element view.
func (m Matrix[T]) Data() []T { return m.data.Data() }

// Buffer returns the shared host buffer backing the matrix.
func (m Matrix[T]) Buffer() hostbuf.Buffer[T] { return m.data }

// At returns the element at row r, column c.
func (m Matrix[T]) At(r, c int) T { return m.data.Data()[r*m.cols+c] }

// Set stores v at row r, column c.
func (m Matrix[T]) Set(r, c int, v T) { m.data.Data()[r*m.cols+c] = v }

// Transpose returns a new matrix with rows and columns swapped.
func (m Matrix[T]) Transpose() Matrix[T] {
	out := New[T](m.cols, m.rows)
	src, dst := m.Data(), out.Data()
	parallel.For2D(m.rows, m.cols, func(r, c int) {
		dst[c*m.rows+r] = src[r*m.cols+c]
	}, parallel.DefaultConfig())
	return out
}

// Equal reports whether both matrices have the same shape and elements.
func (m Matrix[T]) Equal(other Matrix[T]) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	a, b := m.Data(), other.Data()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MulHost computes the product on the host with the plain triple loop,
// parallelized over result rows. It is the reference the device path is
// checked against.
func (m Matrix[T]) MulHost(other Matrix[T]) (Matrix[T], error) {
	if m.cols != other.rows {
		return Matrix[T]{}, errors.Errorf("matrix: cannot multiply %dx%d by %dx%d",
			m.rows, m.cols, other.rows, other.cols)
	}
	out := New[T](m.rows, other.cols)
	a, b, c := m.Data(), other.Data(), out.Data()
	k, n := m.cols, other.cols
	parallel.For(m.rows, func(r int) {
		for j := 0; j < n; j++ {
			var sum T
			for t := 0; t < k; t++ {
				sum += a[r*k+t] * b[t*n+j]
			}
			c[r*n+j] = sum
		}
	}, parallel.DefaultConfig())
	return out, nil
}

const printLimit = 8

// String renders the matrix with large ones elided.
func (m Matrix[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d %s", m.rows, m.cols, hostbuf.KindOf[T]())
	rows := m.rows
	if rows > printLimit {
		rows = printLimit
	}
	for r := 0; r < rows; r++ {
		sb.WriteString("\n[")
		cols := m.cols
		if cols > printLimit {
			cols = printLimit
		}
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%v", m.At(r, c))
		}
		if cols < m.cols {
			sb.WriteString(" ...")
		}
		sb.WriteByte(']')
	}
	if rows < m.rows {
		sb.WriteString("\n...")
	}
	return sb.String()
}
