package cpu

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
)

// event is the completion signal of one submission.
type event struct {
	done chan struct{}
	err  error
}

func newEvent() *event {
	return &event{done: make(chan struct{})}
}

func (e *event) complete(err error) {
	e.err = err
	close(e.done)
}

func (e *event) Wait() error {
	<-e.done
	return e.err
}

func (e *event) Done() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// cmdQueue is an in-order command channel: one dispatcher goroutine drains
// submissions FIFO, so effects become visible in submission order and
// read-backs submitted after a kernel see its output.
type cmdQueue struct {
	dev *device

	mu     sync.Mutex
	closed bool
	subs   chan func()
	done   chan struct{}
}

func (d *device) NewQueue() (driver.CmdQueue, error) {
	q := &cmdQueue{
		dev:  d,
		subs: make(chan func(), 64),
		done: make(chan struct{}),
	}
	go q.loop()
	return q, nil
}

func (q *cmdQueue) loop() {
	for f := range q.subs {
		f()
	}
	close(q.done)
}

func (q *cmdQueue) submit(f func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return driver.Errf("cpu: submit", driver.StatusInvalidCommandQueue)
	}
	q.subs <- f
	return nil
}

func waitAll(waits []driver.Event) error {
	for _, w := range waits {
		if err := w.Wait(); err != nil {
			return errors.Wrap(err, "cpu: dependency failed")
		}
	}
	return nil
}

func (q *cmdQueue) EnqueueKernel(k driver.Kernel, r driver.Range, args []driver.BoundArg, waits []driver.Event) (driver.Event, error) {
	kk, ok := k.(*kernel)
	if !ok {
		return nil, driver.Errf("cpu: enqueue", driver.StatusInvalidKernel)
	}
	if err := validateSubmission(kk, r, args); err != nil {
		return nil, err
	}

	boundArgs := append([]driver.BoundArg(nil), args...)
	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		ev.complete(kk.run(boundArgs, r))
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (q *cmdQueue) EnqueueRead(b driver.Buffer, dst []byte, waits []driver.Event) (driver.Event, error) {
	mb, ok := b.(*memBuffer)
	if !ok {
		return nil, driver.Errf("cpu: read", driver.StatusInvalidMemObject)
	}
	if len(dst) > mb.Size() {
		return nil, driver.Errf("cpu: read", driver.StatusInvalidValue)
	}

	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		data, err := mb.bytes()
		if err != nil {
			ev.complete(err)
			return
		}
		copy(dst, data)
		ev.complete(nil)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (q *cmdQueue) EnqueueWrite(b driver.Buffer, src []byte, waits []driver.Event) (driver.Event, error) {
	mb, ok := b.(*memBuffer)
	if !ok {
		return nil, driver.Errf("cpu: write", driver.StatusInvalidMemObject)
	}
	if len(src) > mb.Size() {
		return nil, driver.Errf("cpu: write", driver.StatusInvalidValue)
	}

	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		data, err := mb.bytes()
		if err != nil {
			ev.complete(err)
			return
		}
		copy(data, src)
		ev.complete(nil)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Finish blocks until every prior submission has completed.
func (q *cmdQueue) Finish() error {
	marker := make(chan struct{})
	if err := q.submit(func() { close(marker) }); err != nil {
		return err
	}
	<-marker
	return nil
}

// Release drains the queue and stops its dispatcher. Further submissions
// fail with INVALID_COMMAND_QUEUE.
func (q *cmdQueue) Release() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.subs)
	q.mu.Unlock()
	<-q.done
}
