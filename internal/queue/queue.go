// Package queue implements the host-side dispatch engine: it resolves a
// device over a pluggable driver, compiles and caches kernels, realizes
// directional arguments as device buffers, submits work over an
// iteration grid with explicit dependency ordering, and returns futures
// that keep every referenced buffer alive until the device signals.
package queue

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gpuq/gpuq/internal/driver"
)

// Queue owns one in-order command channel on a resolved device, plus the
// program and kernel caches. Compile and Enqueue are safe for concurrent
// use; commands still execute in submission order.
type Queue struct {
	drv      driver.Driver
	platform driver.Platform
	device   driver.Device
	cq       driver.CmdQueue

	mu       sync.RWMutex
	programs map[string]driver.Program
	kernels  map[string]driver.Kernel
	released bool

	builds atomic.Int64
}

// New resolves a device by case-insensitive name substrings over the
// default driver (the GPUQ_DRIVER environment variable, or the portable
// driver) and opens a queue on it. The first platform whose name contains
// platformMatch wins; within it, the first device whose name contains
// deviceMatch. Empty strings match everything.
func New(platformMatch, deviceMatch string) (*Queue, error) {
	drv, err := driver.Open("")
	if err != nil {
		return nil, err
	}
	return NewOn(drv, platformMatch, deviceMatch)
}

// NewAt resolves a device by enumeration indices over the default driver.
func NewAt(platformIdx, deviceIdx int) (*Queue, error) {
	drv, err := driver.Open("")
	if err != nil {
		return nil, err
	}
	return NewOnAt(drv, platformIdx, deviceIdx)
}

// NewOn is New over an explicit driver.
func NewOn(drv driver.Driver, platformMatch, deviceMatch string) (*Queue, error) {
	platforms, err := drv.Platforms()
	if err != nil {
		return nil, errors.Wrapf(err, "queue: listing platforms of driver %s", drv.Name())
	}
	var platform driver.Platform
	for _, p := range platforms {
		if containsFold(p.Name(), platformMatch) {
			platform = p
			break
		}
	}
	if platform == nil {
		return nil, errors.Wrapf(ErrDeviceNotFound,
			"no platform matching %q on driver %s", platformMatch, drv.Name())
	}
	devices, err := platform.Devices()
	if err != nil {
		return nil, errors.Wrapf(err, "queue: listing devices of platform %s", platform.Name())
	}
	for _, d := range devices {
		if containsFold(d.Name(), deviceMatch) {
			return open(drv, platform, d)
		}
	}
	return nil, errors.Wrapf(ErrDeviceNotFound,
		"no device matching %q on platform %s", deviceMatch, platform.Name())
}

// NewOnAt is NewAt over an explicit driver.
func NewOnAt(drv driver.Driver, platformIdx, deviceIdx int) (*Queue, error) {
	platforms, err := drv.Platforms()
	if err != nil {
		return nil, errors.Wrapf(err, "queue: listing platforms of driver %s", drv.Name())
	}
	if platformIdx < 0 || platformIdx >= len(platforms) {
		return nil, errors.Wrapf(ErrIndexOutOfRange,
			"platform %d of %d", platformIdx, len(platforms))
	}
	platform := platforms[platformIdx]
	devices, err := platform.Devices()
	if err != nil {
		return nil, errors.Wrapf(err, "queue: listing devices of platform %s", platform.Name())
	}
	if deviceIdx < 0 || deviceIdx >= len(devices) {
		return nil, errors.Wrapf(ErrIndexOutOfRange,
			"device %d of %d on platform %s", deviceIdx, len(devices), platform.Name())
	}
	return open(drv, platform, devices[deviceIdx])
}

func open(drv driver.Driver, p driver.Platform, d driver.Device) (*Queue, error) {
	cq, err := d.NewQueue()
	if err != nil {
		return nil, errors.Wrapf(err, "queue: opening command queue on %s", d.Name())
	}
	klog.V(1).Infof("queue: opened %s / %s / %s", drv.Name(), p.Name(), d.Name())
	return &Queue{
		drv:      drv,
		platform: p,
		device:   d,
		cq:       cq,
		programs: make(map[string]driver.Program),
		kernels:  make(map[string]driver.Kernel),
	}, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

// Device returns the resolved device.
func (q *Queue) Device() driver.Device { return q.device }

// Platform returns the resolved platform.
func (q *Queue) Platform() driver.Platform { return q.platform }

// Driver returns the driver the queue was resolved over.
func (q *Queue) Driver() driver.Driver { return q.drv }

// BuildCount returns how many device program builds this queue has
// performed. Cache hits do not increase it.
func (q *Queue) BuildCount() int64 { return q.builds.Load() }

// Compile loads a kernel source file and returns its entry kernel,
// reusing the cached build when the same path and options were seen
// before. The cache key is the exact concatenation of path and options;
// any textual difference in the options is a different program.
func (q *Queue) Compile(path, entry, options string) (driver.Kernel, error) {
	q.mu.RLock()
	k, ok := q.kernels[kernelKey(path+options, entry)]
	q.mu.RUnlock()
	if ok {
		return k, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "queue: reading kernel source %s", path)
	}
	return q.compile(path+options, string(src), entry, options)
}

// CompileSource is Compile for in-memory sources. id stands in for the
// path in the cache key, so distinct sources need distinct ids.
func (q *Queue) CompileSource(id, source, entry, options string) (driver.Kernel, error) {
	return q.compile(id+options, source, entry, options)
}

func kernelKey(progKey, entry string) string {
	return progKey + "; " + entry
}

func (q *Queue) compile(progKey, source, entry, options string) (driver.Kernel, error) {
	kkey := kernelKey(progKey, entry)
	q.mu.RLock()
	k, ok := q.kernels[kkey]
	q.mu.RUnlock()
	if ok {
		klog.V(2).Infof("queue: kernel cache hit for %q", kkey)
		return k, nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.released {
		return nil, errors.New("queue: compile on a released queue")
	}
	if k, ok := q.kernels[kkey]; ok {
		return k, nil
	}
	prog, ok := q.programs[progKey]
	if !ok {
		var err error
		prog, err = q.device.NewProgram(source, options)
		if err != nil {
			return nil, err
		}
		q.builds.Add(1)
		q.programs[progKey] = prog
		klog.V(1).Infof("queue: built program %q, %d builds so far", progKey, q.builds.Load())
	}
	k, err := prog.Kernel(entry)
	if err != nil {
		return nil, err
	}
	q.kernels[kkey] = k
	return k, nil
}

// Finish blocks until every command submitted so far has completed.
func (q *Queue) Finish() error { return q.cq.Finish() }

// Release frees the cached kernels and programs and closes the command
// channel. Releasing twice is a no-op; a released queue rejects further
// submissions.
func (q *Queue) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.released {
		return
	}
	q.released = true
	for _, k := range q.kernels {
		k.Release()
	}
	for _, p := range q.programs {
		p.Release()
	}
	q.kernels, q.programs = nil, nil
	q.cq.Release()
}
