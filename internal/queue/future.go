package queue

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
)

// Waiter is anything whose completion a later submission can wait on.
// Every Future implements it regardless of result type.
type Waiter interface {
	waitEvent() (driver.Event, error)
}

// Future resolves to a value of type T once the device work behind it
// completes. A future obtained from a dispatch call is live; the zero
// value and a consumed future report ErrInvalidSignal.
//
// Dropping a live future without waiting is safe: the submission itself
// holds the buffer references until the device signals, not the handle.
type Future[T any] struct {
	mu     sync.Mutex
	result T
	keep   []any
	ev     driver.Event
	valid  bool
}

// NewFuture binds a pending result to a completion event. keep pins
// auxiliary values for the garbage collector until the handle is consumed.
// A nil event makes the future resolve immediately.
func NewFuture[T any](result T, keep []any, ev driver.Event) *Future[T] {
	return &Future[T]{result: result, keep: keep, ev: ev, valid: true}
}

// Immediate returns an already resolved future carrying result.
func Immediate[T any](result T) *Future[T] {
	return &Future[T]{result: result, valid: true}
}

// Wait blocks until the device work completes and reports its outcome.
// Waiting again is allowed and returns the same outcome.
func (f *Future[T]) Wait() error {
	if f == nil {
		return ErrInvalidSignal
	}
	f.mu.Lock()
	valid, ev := f.valid, f.ev
	f.mu.Unlock()
	if !valid {
		return ErrInvalidSignal
	}
	if ev == nil {
		return nil
	}
	return ev.Wait()
}

// Get waits for completion and moves the result out. The future is
// consumed on success; a second Get reports ErrInvalidSignal. A failed
// wait leaves the future live so the error is observable again.
func (f *Future[T]) Get() (T, error) {
	var zero T
	if f == nil {
		return zero, ErrInvalidSignal
	}
	f.mu.Lock()
	if !f.valid {
		f.mu.Unlock()
		return zero, ErrInvalidSignal
	}
	ev := f.ev
	f.mu.Unlock()

	if ev != nil {
		if err := ev.Wait(); err != nil {
			return zero, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.valid {
		// Another Get consumed the result between the wait and here.
		return zero, ErrInvalidSignal
	}
	result := f.result
	f.result = zero
	f.keep = nil
	f.valid = false
	return result, nil
}

// Done reports without blocking whether the result is ready. A zero or
// consumed future reports false.
func (f *Future[T]) Done() bool {
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.valid {
		return false
	}
	if f.ev == nil {
		return true
	}
	return f.ev.Done()
}

// WithResult derives a future that resolves with result when f's signal
// fires. The derived handle shares f's signal without consuming f, so a
// layer can hand back a richer result type while the dispatch future
// keeps the in-flight memory pinned.
func WithResult[U, T any](f *Future[T], result U) *Future[U] {
	if f == nil {
		return &Future[U]{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &Future[U]{result: result, keep: []any{f}, ev: f.ev, valid: f.valid}
}

func (f *Future[T]) waitEvent() (driver.Event, error) {
	if f == nil {
		return nil, errors.Wrap(ErrInvalidSignal, "nil dependency")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.valid {
		return nil, errors.Wrap(ErrInvalidSignal, "consumed dependency")
	}
	return f.ev, nil
}
