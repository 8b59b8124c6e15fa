package queue

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gpuq/gpuq/internal/hostbuf"
)

// CopyToDevice schedules a host-to-device copy after deps and returns a
// future over dst. The host source stays referenced until the copy
// completes.
func CopyToDevice[T hostbuf.Element](q *Queue, dst DeviceBuffer, src hostbuf.Buffer[T], deps ...Waiter) (*Future[DeviceBuffer], error) {
	if err := checkTransfer(dst, src.Len(), hostbuf.KindOf[T]()); err != nil {
		return nil, err
	}
	waits, err := gatherWaits(deps)
	if err != nil {
		return nil, err
	}
	ev, err := q.cq.EnqueueWrite(dst.buf, src.Bytes(), waits)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("queue: copying %d bytes to device", src.ByteSize())
	held := src.Raw().Retain()
	releaseOnDone(ev, nil, []hostbuf.Raw{held})
	return NewFuture(dst, []any{held, dst}, ev), nil
}

// CopyFromDevice schedules a device-to-host copy after deps and returns
// a future over the refreshed host buffer. The host destination stays
// referenced until the copy completes.
func CopyFromDevice[T hostbuf.Element](q *Queue, dst hostbuf.Buffer[T], src DeviceBuffer, deps ...Waiter) (*Future[hostbuf.Buffer[T]], error) {
	if err := checkTransfer(src, dst.Len(), hostbuf.KindOf[T]()); err != nil {
		return nil, err
	}
	waits, err := gatherWaits(deps)
	if err != nil {
		return nil, err
	}
	ev, err := q.cq.EnqueueRead(src.buf, dst.Bytes(), waits)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("queue: copying %d bytes from device", dst.ByteSize())
	held := dst.Raw().Retain()
	releaseOnDone(ev, nil, []hostbuf.Raw{held})
	return NewFuture(dst, []any{held, src}, ev), nil
}

func checkTransfer(device DeviceBuffer, hostLen int, hostKind hostbuf.Kind) error {
	if device.IsNil() {
		return errors.New("queue: transfer with a zero device buffer")
	}
	if device.kind != hostKind {
		return errors.Errorf("queue: transfer kind mismatch: device holds %s, host holds %s",
			device.kind, hostKind)
	}
	if device.n != hostLen {
		return errors.Errorf("queue: transfer size mismatch: device holds %d elements, host holds %d",
			device.n, hostLen)
	}
	return nil
}
