//go:build opencl

// Package opencl implements the compute driver over the system OpenCL
// runtime via cgo. It is compiled only under the "opencl" build tag, so the
// default build needs neither the headers nor an ICD loader.
//
// The driver maps the contract onto the native API directly: platforms and
// devices come from the ICD enumeration, programs are clBuildProgram with
// the options string passed through verbatim and the build log captured,
// and kernels execute on an in-order native command queue. Cross-queue
// dependencies are waited host-side by the queue's dispatcher before the
// native enqueue; within a queue the native in-order execution provides the
// submission-order guarantee, so native wait-lists are not needed.
//
// Status codes pass through untranslated: the contract's Status values use
// the same numbering as the native runtime.
package opencl

/*
#cgo CFLAGS: -DCL_TARGET_OPENCL_VERSION=120 -DCL_USE_DEPRECATED_OPENCL_1_2_APIS
#cgo linux LDFLAGS: -lOpenCL
#cgo windows LDFLAGS: -lOpenCL
#cgo darwin LDFLAGS: -framework OpenCL

#ifdef __APPLE__
#include <OpenCL/opencl.h>
#else
#include <CL/cl.h>
#endif
#include <stdlib.h>
*/
import "C"

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gpuq/gpuq/internal/driver"
)

// DriverName is the name this driver registers under.
const DriverName = "opencl"

func init() {
	driver.Register(DriverName, func(config string) (driver.Driver, error) {
		return New(config)
	})
}

// clPlatformNotFoundKHR is the ICD loader's "no runtime installed" code,
// defined by the cl_khr_icd extension rather than the core header.
const clPlatformNotFoundKHR = -1001

// Driver enumerates the OpenCL platforms of the installed ICD loader.
// Device handles are cached so every queue resolved to the same physical
// device shares one context, keeping its buffers and programs exchangeable.
type Driver struct {
	devType C.cl_device_type

	mu   sync.Mutex
	devs map[C.cl_device_id]*device
}

var _ driver.Driver = (*Driver)(nil)

// New creates an opencl driver. The configuration accepts comma-separated
// key=value pairs; the only key is "type", with values "gpu", "cpu" and
// "all" (the default), filtering the devices each platform reports.
func New(config string) (*Driver, error) {
	d := &Driver{devType: C.CL_DEVICE_TYPE_ALL, devs: map[C.cl_device_id]*device{}}
	for _, kv := range strings.Split(config, ",") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		key, value, _ := strings.Cut(kv, "=")
		switch key {
		case "type":
			switch value {
			case "gpu":
				d.devType = C.CL_DEVICE_TYPE_GPU
			case "cpu":
				d.devType = C.CL_DEVICE_TYPE_CPU
			case "all":
				d.devType = C.CL_DEVICE_TYPE_ALL
			default:
				return nil, errors.Errorf("opencl: invalid type value %q", value)
			}
		default:
			return nil, errors.Errorf("opencl: unknown config key %q", key)
		}
	}

	ids, err := platformIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.Wrap(driver.Errf("opencl: init", driver.StatusNotConfigured),
			"no platforms: ICD loader found no runtime")
	}
	klog.V(1).Infof("opencl: %d platform(s)", len(ids))
	return d, nil
}

// Name returns the driver name.
func (d *Driver) Name() string { return DriverName }

// Platforms returns one Platform per native platform.
func (d *Driver) Platforms() ([]driver.Platform, error) {
	ids, err := platformIDs()
	if err != nil {
		return nil, err
	}
	platforms := make([]driver.Platform, len(ids))
	for i, id := range ids {
		platforms[i] = &platform{drv: d, id: id}
	}
	return platforms, nil
}

func platformIDs() ([]C.cl_platform_id, error) {
	var n C.cl_uint
	code := C.clGetPlatformIDs(0, nil, &n)
	// Some loaders report the no-runtime case as an error instead of zero.
	if code == clPlatformNotFoundKHR || (code == C.CL_SUCCESS && n == 0) {
		return nil, nil
	}
	if err := clError("opencl: platforms", code); err != nil {
		return nil, err
	}
	ids := make([]C.cl_platform_id, n)
	if err := clError("opencl: platforms", C.clGetPlatformIDs(n, &ids[0], nil)); err != nil {
		return nil, err
	}
	return ids, nil
}

type platform struct {
	drv *Driver
	id  C.cl_platform_id
}

func (p *platform) Name() string   { return platformInfo(p.id, C.CL_PLATFORM_NAME) }
func (p *platform) Vendor() string { return platformInfo(p.id, C.CL_PLATFORM_VENDOR) }

// Devices returns the platform's devices passing the driver's type filter.
// A platform with no matching devices reports an empty list, not an error.
func (p *platform) Devices() ([]driver.Device, error) {
	var n C.cl_uint
	code := C.clGetDeviceIDs(p.id, p.drv.devType, 0, nil, &n)
	if code == C.CL_DEVICE_NOT_FOUND || (code == C.CL_SUCCESS && n == 0) {
		return nil, nil
	}
	if err := clError("opencl: devices", code); err != nil {
		return nil, err
	}
	ids := make([]C.cl_device_id, n)
	if err := clError("opencl: devices", C.clGetDeviceIDs(p.id, p.drv.devType, n, &ids[0], nil)); err != nil {
		return nil, err
	}
	devices := make([]driver.Device, len(ids))
	for i, id := range ids {
		devices[i] = p.drv.dev(id)
	}
	return devices, nil
}

func (d *Driver) dev(id C.cl_device_id) *device {
	d.mu.Lock()
	defer d.mu.Unlock()
	if dev, ok := d.devs[id]; ok {
		return dev
	}
	dev := &device{id: id}
	d.devs[id] = dev
	return dev
}

type device struct {
	id C.cl_device_id

	once sync.Once
	ctx  C.cl_context
	cerr error
}

func (d *device) Name() string   { return deviceInfoString(d.id, C.CL_DEVICE_NAME) }
func (d *device) Vendor() string { return deviceInfoString(d.id, C.CL_DEVICE_VENDOR) }

func (d *device) Info() driver.DeviceInfo {
	dims := int(deviceInfoUint(d.id, C.CL_DEVICE_MAX_WORK_ITEM_DIMENSIONS))
	sizes := make([]int, 0, dims)
	if dims > 0 {
		raw := make([]C.size_t, dims)
		if C.clGetDeviceInfo(d.id, C.CL_DEVICE_MAX_WORK_ITEM_SIZES,
			C.size_t(uintptr(dims)*unsafe.Sizeof(raw[0])), unsafe.Pointer(&raw[0]), nil) == C.CL_SUCCESS {
			for _, s := range raw {
				sizes = append(sizes, int(s))
			}
		}
	}
	return driver.DeviceInfo{
		Type:             deviceTypeName(d.id),
		GlobalMemBytes:   deviceInfoUlong(d.id, C.CL_DEVICE_GLOBAL_MEM_SIZE),
		LocalMemBytes:    deviceInfoUlong(d.id, C.CL_DEVICE_LOCAL_MEM_SIZE),
		ComputeUnits:     int(deviceInfoUint(d.id, C.CL_DEVICE_MAX_COMPUTE_UNITS)),
		MaxWorkGroupSize: int(deviceInfoSize(d.id, C.CL_DEVICE_MAX_WORK_GROUP_SIZE)),
		MaxWorkItemSizes: sizes,
	}
}

// context creates the device's context on first use. Queues, programs and
// buffers of one device share it.
func (d *device) context() (C.cl_context, error) {
	d.once.Do(func() {
		var code C.cl_int
		d.ctx = C.clCreateContext(nil, 1, &d.id, nil, nil, &code)
		d.cerr = clError("opencl: context", code)
	})
	return d.ctx, d.cerr
}

// NewProgram builds the source with the options passed through verbatim.
// A failed build returns a *BuildError carrying the native build log.
func (d *device) NewProgram(source, options string) (driver.Program, error) {
	ctx, err := d.context()
	if err != nil {
		return nil, err
	}

	csource := C.CString(source)
	defer C.free(unsafe.Pointer(csource))
	slen := C.size_t(len(source))
	var code C.cl_int
	prog := C.clCreateProgramWithSource(ctx, 1, &csource, &slen, &code)
	if err := clError("opencl: create program", code); err != nil {
		return nil, err
	}

	coptions := C.CString(options)
	defer C.free(unsafe.Pointer(coptions))
	code = C.clBuildProgram(prog, 1, &d.id, coptions, nil, nil)
	log := buildLog(prog, d.id)
	if code != C.CL_SUCCESS {
		C.clReleaseProgram(prog)
		return nil, &driver.BuildError{
			Status: driver.Status(int32(code)),
			Msg:    "opencl: build",
			Log:    log,
		}
	}
	klog.V(2).Infof("opencl: built program (options %q)", options)
	return &program{dev: d, prog: prog, log: log}, nil
}

func buildLog(prog C.cl_program, dev C.cl_device_id) string {
	var n C.size_t
	if C.clGetProgramBuildInfo(prog, dev, C.CL_PROGRAM_BUILD_LOG, 0, nil, &n) != C.CL_SUCCESS || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if C.clGetProgramBuildInfo(prog, dev, C.CL_PROGRAM_BUILD_LOG, n, unsafe.Pointer(&buf[0]), nil) != C.CL_SUCCESS {
		return ""
	}
	return strings.TrimRight(string(buf), "\x00\n ")
}

type program struct {
	dev      *device
	prog     C.cl_program
	log      string
	released atomic.Bool
}

func (p *program) BuildLog() string { return p.log }

func (p *program) Kernel(entry string) (driver.Kernel, error) {
	centry := C.CString(entry)
	defer C.free(unsafe.Pointer(centry))
	var code C.cl_int
	k := C.clCreateKernel(p.prog, centry, &code)
	if err := clError("opencl: kernel "+entry, code); err != nil {
		return nil, err
	}
	return &kernel{name: entry, k: k}, nil
}

func (p *program) Release() {
	if p.released.CompareAndSwap(false, true) {
		C.clReleaseProgram(p.prog)
	}
}

type kernel struct {
	name string
	k    C.cl_kernel

	// Argument binding mutates the native kernel object, so bind-and-enqueue
	// is a critical section.
	mu       sync.Mutex
	released atomic.Bool
}

func (k *kernel) Name() string { return k.name }

func (k *kernel) Release() {
	if k.released.CompareAndSwap(false, true) {
		C.clReleaseKernel(k.k)
	}
}

// clBuffer is a native memory object. The logical size may be smaller than
// the allocation: zero-size buffers still allocate one byte because the
// native API rejects empty allocations.
type clBuffer struct {
	mem      C.cl_mem
	size     int
	released atomic.Bool
}

// NewBuffer allocates a device buffer. A non-nil hostInit is copied in at
// creation unless the buffer is write-only.
func (d *device) NewBuffer(size int, access driver.Access, hostInit []byte) (driver.Buffer, error) {
	if size < 0 {
		return nil, driver.Errf("opencl: NewBuffer", driver.StatusInvalidBufferSize)
	}
	ctx, err := d.context()
	if err != nil {
		return nil, err
	}

	var flags C.cl_mem_flags
	switch access {
	case driver.ReadOnly:
		flags = C.CL_MEM_READ_ONLY
	case driver.WriteOnly:
		flags = C.CL_MEM_WRITE_ONLY
	default:
		flags = C.CL_MEM_READ_WRITE
	}
	var hostPtr unsafe.Pointer
	if hostInit != nil && access != driver.WriteOnly {
		if len(hostInit) != size {
			return nil, driver.Errf("opencl: NewBuffer", driver.StatusInvalidHostPtr)
		}
		if size > 0 {
			flags |= C.CL_MEM_COPY_HOST_PTR
			hostPtr = unsafe.Pointer(&hostInit[0])
		}
	}
	alloc := size
	if alloc == 0 {
		alloc = 1
	}

	var code C.cl_int
	mem := C.clCreateBuffer(ctx, flags, C.size_t(alloc), hostPtr, &code)
	if err := clError("opencl: NewBuffer", code); err != nil {
		return nil, err
	}
	return &clBuffer{mem: mem, size: size}, nil
}

func (b *clBuffer) Size() int { return b.size }

func (b *clBuffer) Release() {
	if b.released.CompareAndSwap(false, true) {
		C.clReleaseMemObject(b.mem)
	}
}

func (b *clBuffer) handle() (C.cl_mem, error) {
	if b.released.Load() {
		return nil, driver.Errf("opencl: buffer access", driver.StatusInvalidMemObject)
	}
	return b.mem, nil
}

// event is the completion signal of one submission. Kernel events carry the
// native event once the dispatcher has enqueued them; transfer events
// complete directly because transfers block inside the dispatcher.
type event struct {
	done chan struct{}
	err  error
	ev   C.cl_event
}

func newEvent() *event {
	return &event{done: make(chan struct{})}
}

func (e *event) complete(err error) {
	e.err = err
	close(e.done)
}

func (e *event) bind(ev C.cl_event) {
	e.ev = ev
	runtime.SetFinalizer(e, (*event).finalize)
	close(e.done)
}

func (e *event) finalize() {
	if e.ev != nil {
		C.clReleaseEvent(e.ev)
		e.ev = nil
	}
}

func (e *event) Wait() error {
	<-e.done
	if e.err != nil || e.ev == nil {
		return e.err
	}
	ev := e.ev
	return clError("opencl: wait", C.clWaitForEvents(1, &ev))
}

func (e *event) Done() bool {
	select {
	case <-e.done:
	default:
		return false
	}
	if e.err != nil || e.ev == nil {
		return true
	}
	var status C.cl_int
	if C.clGetEventInfo(e.ev, C.CL_EVENT_COMMAND_EXECUTION_STATUS,
		C.size_t(unsafe.Sizeof(status)), unsafe.Pointer(&status), nil) != C.CL_SUCCESS {
		return true
	}
	return status <= C.CL_COMPLETE
}

// cmdQueue wraps one native in-order command queue. A dispatcher goroutine
// performs the native enqueues so cross-queue dependencies can be waited
// without blocking the caller.
type cmdQueue struct {
	dev *device
	q   C.cl_command_queue

	mu     sync.Mutex
	closed bool
	subs   chan func()
	done   chan struct{}
}

func (d *device) NewQueue() (driver.CmdQueue, error) {
	ctx, err := d.context()
	if err != nil {
		return nil, err
	}
	var code C.cl_int
	cq := C.clCreateCommandQueue(ctx, d.id, 0, &code)
	if err := clError("opencl: NewQueue", code); err != nil {
		return nil, err
	}
	q := &cmdQueue{
		dev:  d,
		q:    cq,
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
		return driver.Errf("opencl: submit", driver.StatusInvalidCommandQueue)
	}
	q.subs <- f
	return nil
}

func waitAll(waits []driver.Event) error {
	for _, w := range waits {
		if err := w.Wait(); err != nil {
			return errors.Wrap(err, "opencl: dependency failed")
		}
	}
	return nil
}

func validateSubmission(k *kernel, r driver.Range, args []driver.BoundArg) error {
	dims := r.Dims()
	if dims < 1 || dims > 3 {
		return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidWorkDimension)
	}
	if len(r.Offset) > 0 && len(r.Offset) != dims {
		return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidGlobalOffset)
	}
	if len(r.Local) > 0 && len(r.Local) != dims {
		return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
	}
	for d := 0; d < dims; d++ {
		if r.Global[d] <= 0 {
			return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidGlobalWorkSize)
		}
		if len(r.Local) > 0 && (r.Local[d] <= 0 || r.Global[d]%r.Local[d] != 0) {
			return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidWorkGroupSize)
		}
	}
	for _, arg := range args {
		switch arg.Kind {
		case driver.ArgBuffer:
			if _, ok := arg.Buffer.(*clBuffer); !ok {
				return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidMemObject)
			}
		case driver.ArgLocal:
			if arg.Size <= 0 {
				return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidArgSize)
			}
		case driver.ArgScalar:
			if len(arg.Value) == 0 {
				return driver.Errf("opencl: enqueue "+k.name, driver.StatusInvalidArgValue)
			}
		}
	}
	return nil
}

func (q *cmdQueue) EnqueueKernel(k driver.Kernel, r driver.Range, args []driver.BoundArg, waits []driver.Event) (driver.Event, error) {
	kk, ok := k.(*kernel)
	if !ok {
		return nil, driver.Errf("opencl: enqueue", driver.StatusInvalidKernel)
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
		native, err := q.dispatch(kk, r, boundArgs)
		if err != nil {
			ev.complete(err)
			return
		}
		ev.bind(native)
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// dispatch binds the arguments and enqueues the kernel, returning the
// native completion event.
func (q *cmdQueue) dispatch(k *kernel, r driver.Range, args []driver.BoundArg) (C.cl_event, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i, arg := range args {
		var code C.cl_int
		switch arg.Kind {
		case driver.ArgBuffer:
			mem, err := arg.Buffer.(*clBuffer).handle()
			if err != nil {
				return nil, err
			}
			code = C.clSetKernelArg(k.k, C.cl_uint(i), C.size_t(unsafe.Sizeof(mem)), unsafe.Pointer(&mem))
		case driver.ArgLocal:
			code = C.clSetKernelArg(k.k, C.cl_uint(i), C.size_t(arg.Size), nil)
		case driver.ArgScalar:
			code = C.clSetKernelArg(k.k, C.cl_uint(i), C.size_t(len(arg.Value)), unsafe.Pointer(&arg.Value[0]))
		}
		if err := clError("opencl: set arg "+k.name, code); err != nil {
			return nil, err
		}
	}

	dims := r.Dims()
	var offset, global, local [3]C.size_t
	for d := 0; d < dims; d++ {
		global[d] = C.size_t(r.Global[d])
		if len(r.Offset) > 0 {
			offset[d] = C.size_t(r.Offset[d])
		}
		if len(r.Local) > 0 {
			local[d] = C.size_t(r.Local[d])
		}
	}
	var offp, locp *C.size_t
	if len(r.Offset) > 0 {
		offp = &offset[0]
	}
	if len(r.Local) > 0 {
		locp = &local[0]
	}

	var native C.cl_event
	code := C.clEnqueueNDRangeKernel(q.q, k.k, C.cl_uint(dims), offp, &global[0], locp, 0, nil, &native)
	if err := clError("opencl: enqueue "+k.name, code); err != nil {
		return nil, err
	}
	// Flush so polling Done observes progress without a host wait.
	C.clFlush(q.q)
	return native, nil
}

func (q *cmdQueue) EnqueueRead(b driver.Buffer, dst []byte, waits []driver.Event) (driver.Event, error) {
	cb, ok := b.(*clBuffer)
	if !ok {
		return nil, driver.Errf("opencl: read", driver.StatusInvalidMemObject)
	}
	if len(dst) > cb.Size() {
		return nil, driver.Errf("opencl: read", driver.StatusInvalidValue)
	}

	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		mem, err := cb.handle()
		if err != nil {
			ev.complete(err)
			return
		}
		if len(dst) == 0 {
			ev.complete(nil)
			return
		}
		// Blocking read: dst must not be retained by the native runtime
		// past the call, and the event then means the data has landed.
		code := C.clEnqueueReadBuffer(q.q, mem, C.CL_TRUE, 0,
			C.size_t(len(dst)), unsafe.Pointer(&dst[0]), 0, nil, nil)
		ev.complete(clError("opencl: read", code))
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func (q *cmdQueue) EnqueueWrite(b driver.Buffer, src []byte, waits []driver.Event) (driver.Event, error) {
	cb, ok := b.(*clBuffer)
	if !ok {
		return nil, driver.Errf("opencl: write", driver.StatusInvalidMemObject)
	}
	if len(src) > cb.Size() {
		return nil, driver.Errf("opencl: write", driver.StatusInvalidValue)
	}

	deps := append([]driver.Event(nil), waits...)
	ev := newEvent()
	err := q.submit(func() {
		if err := waitAll(deps); err != nil {
			ev.complete(err)
			return
		}
		mem, err := cb.handle()
		if err != nil {
			ev.complete(err)
			return
		}
		if len(src) == 0 {
			ev.complete(nil)
			return
		}
		code := C.clEnqueueWriteBuffer(q.q, mem, C.CL_TRUE, 0,
			C.size_t(len(src)), unsafe.Pointer(&src[0]), 0, nil, nil)
		ev.complete(clError("opencl: write", code))
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Finish blocks until every prior submission has completed on the device.
func (q *cmdQueue) Finish() error {
	marker := make(chan struct{})
	var code C.cl_int
	if err := q.submit(func() {
		code = C.clFinish(q.q)
		close(marker)
	}); err != nil {
		return err
	}
	<-marker
	return clError("opencl: finish", code)
}

// Release drains the dispatcher, finishes the native queue and frees it.
// Further submissions fail with INVALID_COMMAND_QUEUE.
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
	C.clFinish(q.q)
	C.clReleaseCommandQueue(q.q)
}

// clError maps a native return code onto the contract's status numbering,
// which matches the native one.
func clError(op string, code C.cl_int) error {
	if code == C.CL_SUCCESS {
		return nil
	}
	return driver.Errf(op, driver.Status(int32(code)))
}

func platformInfo(id C.cl_platform_id, param C.cl_platform_info) string {
	var n C.size_t
	if C.clGetPlatformInfo(id, param, 0, nil, &n) != C.CL_SUCCESS || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if C.clGetPlatformInfo(id, param, n, unsafe.Pointer(&buf[0]), nil) != C.CL_SUCCESS {
		return ""
	}
	return strings.TrimRight(string(buf), "\x00")
}

func deviceInfoString(id C.cl_device_id, param C.cl_device_info) string {
	var n C.size_t
	if C.clGetDeviceInfo(id, param, 0, nil, &n) != C.CL_SUCCESS || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if C.clGetDeviceInfo(id, param, n, unsafe.Pointer(&buf[0]), nil) != C.CL_SUCCESS {
		return ""
	}
	return strings.TrimRight(string(buf), "\x00")
}

func deviceInfoUlong(id C.cl_device_id, param C.cl_device_info) uint64 {
	var v C.cl_ulong
	if C.clGetDeviceInfo(id, param, C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v), nil) != C.CL_SUCCESS {
		return 0
	}
	return uint64(v)
}

func deviceInfoUint(id C.cl_device_id, param C.cl_device_info) uint32 {
	var v C.cl_uint
	if C.clGetDeviceInfo(id, param, C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v), nil) != C.CL_SUCCESS {
		return 0
	}
	return uint32(v)
}

func deviceInfoSize(id C.cl_device_id, param C.cl_device_info) uint64 {
	var v C.size_t
	if C.clGetDeviceInfo(id, param, C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v), nil) != C.CL_SUCCESS {
		return 0
	}
	return uint64(v)
}

func deviceTypeName(id C.cl_device_id) string {
	var v C.cl_device_type
	if C.clGetDeviceInfo(id, C.CL_DEVICE_TYPE, C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v), nil) != C.CL_SUCCESS {
		return "Unknown"
	}
	switch {
	case v&C.CL_DEVICE_TYPE_GPU != 0:
		return "GPU"
	case v&C.CL_DEVICE_TYPE_CPU != 0:
		return "CPU"
	case v&C.CL_DEVICE_TYPE_ACCELERATOR != 0:
		return "Accelerator"
	default:
		return "Default"
	}
}
