// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package matrix provides dense row-major matrices with device-accelerated
// arithmetic over a gpuq queue.
//
// # Overview
//
// A Matrix is a host container backed by a shared buffer, so it crosses
// the dispatch boundary without copies. The device operations compile
// their kernels on first use per element type and return futures; chain
// them by passing a future as a dependency of the next operation.
//
// # Basic Usage
//
//	q, err := queue.New("", "")
//	a, err := matrix.FromSlice(4, 4, vals)
//	b, err := matrix.FromSlice(4, 8, vals2)
//
//	fut, err := matrix.Mul(q, a, b)
//	c, err := fut.Get() // 4x8 product
//
// # Chaining
//
//	sum := matrix.New[int32](4, 4)
//	futSum, err := matrix.AddInto(q, sum, a, b)
//	futProd, err := matrix.Mul(q, sum, c, futSum) // ordered by the future
package matrix

import (
	"github.com/gpuq/gpuq/internal/matrix"
	"github.com/gpuq/gpuq/queue"
)

// Number is a constraint for matrix element types: the fixed-size integer
// and floating-point types the kernels compute with.
type Number = matrix.Number

// Matrix is a dense row-major matrix over a shared host buffer. Copies of
// the value alias the same memory.
type Matrix[T Number] = matrix.Matrix[T]

// New allocates a zeroed rows x cols matrix.
func New[T Number](rows, cols int) Matrix[T] {
	return matrix.New[T](rows, cols)
}

// FromSlice builds a rows x cols matrix from row-major values.
func FromSlice[T Number](rows, cols int, vals []T) (Matrix[T], error) {
	return matrix.FromSlice(rows, cols, vals)
}

// Add computes a + b on the device.
func Add[T Number](q *queue.Queue, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return matrix.Add(q, a, b, deps...)
}

// AddInto computes a + b on the device into a caller-provided destination,
// so a later operation can consume dst with only the future as the
// ordering link.
func AddInto[T Number](q *queue.Queue, dst, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return matrix.AddInto(q, dst, a, b, deps...)
}

// Sub computes a - b on the device.
func Sub[T Number](q *queue.Queue, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return matrix.Sub(q, a, b, deps...)
}

// SubInto computes a - b on the device into a caller-provided destination.
func SubInto[T Number](q *queue.Queue, dst, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return matrix.SubInto(q, dst, a, b, deps...)
}

// Mul computes the matrix product a x b on the device with a tiled kernel.
// The tile size adapts to the device's work-group limit and the operand
// shapes.
func Mul[T Number](q *queue.Queue, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return matrix.Mul(q, a, b, deps...)
}

// MulInto computes a x b on the device into a caller-provided destination.
func MulInto[T Number](q *queue.Queue, dst, a, b Matrix[T], deps ...queue.Waiter) (*queue.Future[Matrix[T]], error) {
	return matrix.MulInto(q, dst, a, b, deps...)
}
