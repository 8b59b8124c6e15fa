// Copyright 2025 The gpuq Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package queue

import (
	"github.com/gpuq/gpuq/driver"
	"github.com/gpuq/gpuq/internal/queue"
)

// Waiter is anything whose completion a submission can wait on. Futures
// implement it; Enqueue and the transfer functions accept any mix as
// dependencies.
type Waiter = queue.Waiter

// Future is the pending result of one asynchronous operation.
//
// Get blocks until completion and moves the result out; it succeeds
// exactly once, after which the future is consumed and further use fails
// with ErrInvalidSignal. Wait observes completion without consuming.
// Passing the future to Enqueue as a dependency does not consume it.
type Future[T any] = queue.Future[T]

// NewFuture wraps a completion event with its result and the references
// the operation must keep alive until it fires. Drivers and engine
// extensions use it; most callers only consume futures.
func NewFuture[T any](result T, keep []any, ev driver.Event) *Future[T] {
	return queue.NewFuture(result, keep, ev)
}

// Immediate returns an already resolved future. Waiting on it is a no-op.
func Immediate[T any](result T) *Future[T] {
	return queue.Immediate(result)
}

// WithResult derives a future that resolves to the given result when f's
// operation completes. It does not consume f.
func WithResult[U, T any](f *Future[T], result U) *Future[U] {
	return queue.WithResult(f, result)
}
