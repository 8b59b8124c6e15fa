// Package driver defines the contract between the dispatch engine and the
// accelerator backends that execute its work: enumeration of platforms and
// devices, program builds, buffer allocation, and in-order command queues
// producing completion events.
package driver

// Access declares how a device buffer may be used by kernels.
type Access int

// Buffer access policies.
const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

// String returns a human-readable access policy name.
func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// Range is the N-dimensional index space of one kernel submission. Offset
// and Local may be nil; Global is required. Dimensional agreement is
// validated above the driver layer.
type Range struct {
	Offset []int
	Global []int
	Local  []int
}

// Dims returns the dimensionality of the range.
func (r Range) Dims() int {
	return len(r.Global)
}

// TotalGlobal returns the total number of work items, 0 when any extent is 0.
func (r Range) TotalGlobal() int {
	if len(r.Global) == 0 {
		return 0
	}
	total := 1
	for _, g := range r.Global {
		total *= g
	}
	return total
}

// ArgKind discriminates the three binding forms a kernel argument can take.
type ArgKind int

// Kernel argument binding forms.
const (
	ArgBuffer ArgKind = iota
	ArgLocal
	ArgScalar
)

// BoundArg is one positionally bound kernel argument: a device buffer, a
// local scratch allocation of Size bytes, or an immediate scalar value.
type BoundArg struct {
	Kind   ArgKind
	Buffer Buffer
	Size   int
	Value  []byte
}

// BufferBinding binds a device buffer.
func BufferBinding(b Buffer) BoundArg {
	return BoundArg{Kind: ArgBuffer, Buffer: b}
}

// LocalBinding binds a per-work-group scratch allocation of the given byte
// size.
func LocalBinding(size int) BoundArg {
	return BoundArg{Kind: ArgLocal, Size: size}
}

// ScalarBinding binds an immediate value from its raw bytes.
func ScalarBinding(value []byte) BoundArg {
	return BoundArg{Kind: ArgScalar, Size: len(value), Value: value}
}

// DeviceInfo carries the device properties surfaced to diagnostics and
// work-size decisions.
type DeviceInfo struct {
	Type             string
	GlobalMemBytes   uint64
	LocalMemBytes    uint64
	ComputeUnits     int
	MaxWorkGroupSize int
	MaxWorkItemSizes []int
}

// Driver is one accelerator backend: a way to enumerate platforms and open
// devices. Implementations register themselves with Register from init.
type Driver interface {
	Name() string
	Platforms() ([]Platform, error)
}

// Platform groups the devices exposed by one vendor runtime.
type Platform interface {
	Name() string
	Vendor() string
	Devices() ([]Device, error)
}

// Device is an opened compute device. Programs built from it and buffers
// allocated on it are only valid with queues of the same device.
type Device interface {
	Name() string
	Vendor() string
	Info() DeviceInfo

	// NewQueue creates an in-order command queue: submissions complete in
	// submission order relative to each other.
	NewQueue() (CmdQueue, error)

	// NewProgram builds kernel source text with the given options string
	// (passed through verbatim, "-D NAME=value" style). A failed build
	// returns a *BuildError carrying the build log.
	NewProgram(source, options string) (Program, error)

	// NewBuffer allocates a device buffer of size bytes. A non-nil hostInit
	// pre-populates it; WriteOnly buffers are never pre-populated.
	NewBuffer(size int, access Access, hostInit []byte) (Buffer, error)
}

// Program is a successfully built program; kernel handles are created from
// it by entry-point name.
type Program interface {
	Kernel(entry string) (Kernel, error)
	BuildLog() string
	Release()
}

// Kernel is an executable entry point of a built program.
type Kernel interface {
	Name() string
	Release()
}

// Buffer is a device-resident allocation.
type Buffer interface {
	Size() int
	Release()
}

// Event is the completion signal of one submitted operation.
type Event interface {
	// Wait blocks until the operation completes and returns its error.
	Wait() error
	// Done reports completion without blocking.
	Done() bool
}

// CmdQueue is one in-order command channel of a device.
type CmdQueue interface {
	// EnqueueKernel submits one kernel invocation over the range with
	// positionally bound arguments. The kernel must not begin before every
	// wait event has fired. The returned event fires when it completes.
	EnqueueKernel(k Kernel, r Range, args []BoundArg, waits []Event) (Event, error)

	// EnqueueRead submits an asynchronous device-to-host copy.
	EnqueueRead(b Buffer, dst []byte, waits []Event) (Event, error)

	// EnqueueWrite submits an asynchronous host-to-device copy.
	EnqueueWrite(b Buffer, src []byte, waits []Event) (Event, error)

	// Finish blocks until every submitted operation has completed.
	Finish() error

	Release()
}
