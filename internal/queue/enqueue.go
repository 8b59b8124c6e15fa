package queue

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/hostbuf"
)

// Enqueue realizes the task's arguments on the device, submits the
// kernel over the grid after deps, queues a non-blocking read-back for
// every host-backed out and in-out argument, and returns a future over
// the refreshed host views in read-back order.
//
// The submission retains every referenced host store and releases it
// once the device signals, so dropping the future without waiting never
// leaves the device touching freed memory. All failures are synchronous
// and final; nothing is retried.
//
// A grid with zero total extent submits nothing and yields an immediate
// future with empty results.
func (q *Queue) Enqueue(t *Task, g Grid, deps ...Waiter) (*Future[[]hostbuf.Raw], error) {
	if d := g.Dims(); d < 1 || d > 3 {
		return nil, driver.Errf("enqueue", driver.StatusInvalidWorkDimension)
	}
	waits, err := gatherWaits(deps)
	if err != nil {
		return nil, err
	}
	if g.Total() == 0 {
		klog.V(2).Infof("queue: %s over an empty grid, nothing to submit", t.KernelName())
		return Immediate([]hostbuf.Raw{}), nil
	}

	bound := make([]driver.BoundArg, len(t.args))
	argBuf := make([]driver.Buffer, len(t.args))
	var (
		created  []driver.Buffer // per-dispatch buffers, freed after the run
		retained []hostbuf.Raw   // submission-held host references
		keep     []any
		lastEv   driver.Event // most recent command queued for this submission
	)
	// Once a copy-in is queued the device may be touching the realized
	// buffers, so cleanup after a later failure defers to the in-order
	// queue: the newest event fires after everything queued before it.
	fail := func(err error) (*Future[[]hostbuf.Raw], error) {
		if lastEv != nil {
			releaseOnDone(lastEv, created, retained)
			return nil, err
		}
		for _, b := range created {
			b.Release()
		}
		for _, r := range retained {
			r.Release()
		}
		return nil, err
	}

	for i, a := range t.args {
		switch a.dir {
		case DirIn, DirOut, DirInOut:
			if !a.dev.IsNil() {
				bound[i] = driver.BufferBinding(a.dev.buf)
				keep = append(keep, a.dev)
				continue
			}
			if a.raw.IsNil() {
				return fail(errors.Errorf("queue: argument %d has no backing buffer", i))
			}
			access := driver.ReadOnly
			switch a.dir {
			case DirInOut:
				access = driver.ReadWrite
			case DirOut:
				access = driver.WriteOnly
			}
			buf, err := q.device.NewBuffer(a.raw.ByteSize(), access, nil)
			if err != nil {
				return fail(errors.Wrapf(err, "queue: realizing argument %d", i))
			}
			created = append(created, buf)
			retained = append(retained, a.raw.Retain())
			if a.dir != DirOut {
				// Copy-in is a queued command on the same wait-list, so an
				// input that a dependency refreshes is populated after that
				// dependency fires, not with whatever the host held at call
				// time.
				wev, err := q.cq.EnqueueWrite(buf, a.raw.Bytes(), waits)
				if err != nil {
					return fail(errors.Wrapf(err, "queue: populating argument %d", i))
				}
				lastEv = wev
			}
			argBuf[i] = buf
			bound[i] = driver.BufferBinding(buf)
		case DirLocal:
			bound[i] = driver.LocalBinding(a.size)
		case DirScalar:
			bound[i] = driver.ScalarBinding(a.val)
		default:
			return fail(errors.Errorf("queue: argument %d has no direction", i))
		}
	}

	r := driver.Range{Offset: g.Offset, Global: g.Global, Local: g.Local}
	kev, err := q.cq.EnqueueKernel(t.kernel, r, bound, waits)
	if err != nil {
		return fail(err)
	}
	lastEv = kev

	// The queue is in-order, so read-backs submitted here observe the
	// kernel's writes without an explicit wait on its event.
	signal := kev
	views := make([]hostbuf.Raw, 0, len(t.readback))
	for _, i := range t.readback {
		ev, err := q.cq.EnqueueRead(argBuf[i], t.args[i].raw.Bytes(), nil)
		if err != nil {
			return fail(errors.Wrapf(err, "queue: reading back argument %d", i))
		}
		signal = ev
		lastEv = ev
		views = append(views, t.args[i].raw)
	}
	klog.V(2).Infof("queue: dispatched %s over %v, %d args, %d read-backs",
		t.KernelName(), g.Global, len(t.args), len(t.readback))

	for _, r := range retained {
		keep = append(keep, r)
	}
	for _, b := range created {
		keep = append(keep, b)
	}
	releaseOnDone(signal, created, retained)
	return NewFuture(views, keep, signal), nil
}

func gatherWaits(deps []Waiter) ([]driver.Event, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	waits := make([]driver.Event, 0, len(deps))
	for _, dep := range deps {
		if dep == nil {
			return nil, errors.Wrap(ErrInvalidSignal, "nil dependency")
		}
		ev, err := dep.waitEvent()
		if err != nil {
			return nil, err
		}
		if ev != nil {
			waits = append(waits, ev)
		}
	}
	return waits, nil
}

// releaseOnDone drops the submission-held references once the device
// signals, error or not.
func releaseOnDone(signal driver.Event, created []driver.Buffer, retained []hostbuf.Raw) {
	go func() {
		_ = signal.Wait()
		for _, b := range created {
			b.Release()
		}
		for _, r := range retained {
			r.Release()
		}
	}()
}
