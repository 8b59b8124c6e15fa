package cpu

import (
	"sort"
	"strconv"
	"sync"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/driver"
	"github.com/gpuq/gpuq/internal/hostbuf"
)

// Impl is one registered kernel implementation.
type Impl struct {
	// NumArgs is the parameter count of the kernel signature. Bindings are
	// checked against it at enqueue.
	NumArgs int

	// Prepare, when set, runs once per invocation before any work item.
	// It validates bindings and defines; its error fails the invocation.
	Prepare func(inv *Invocation) error

	// Run executes one work item. Items of one work-group run concurrently
	// and may synchronize with wi.Barrier().
	Run func(wi *Item)
}

var (
	implMu sync.RWMutex
	impls  = map[string]Impl{}
)

// RegisterKernel makes a kernel implementation available to program builds
// under its entry-point name. Re-registering a name replaces the previous
// implementation; tests rely on that to install throwaway kernels.
func RegisterKernel(name string, impl Impl) {
	if impl.Run == nil {
		panic("cpu: RegisterKernel with nil Run for " + name)
	}
	implMu.Lock()
	defer implMu.Unlock()
	impls[name] = impl
}

func lookupImpl(name string) (Impl, bool) {
	implMu.RLock()
	defer implMu.RUnlock()
	impl, ok := impls[name]
	return impl, ok
}

// RegisteredKernels returns the registered entry-point names, sorted.
func RegisteredKernels() []string {
	implMu.RLock()
	defer implMu.RUnlock()
	names := make([]string, 0, len(impls))
	for name := range impls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invocation is the per-submission view an implementation works against:
// the bound arguments, the parsed defines and the index range.
type Invocation struct {
	Name    string
	Args    []driver.BoundArg
	Defines map[string]string
	Range   driver.Range

	// elem caches the element kind a Prepare hook resolved from the
	// defines, so Run does not re-parse it per work item.
	elem hostbuf.Kind
}

// Define returns the value of a build define.
func (inv *Invocation) Define(name string) (string, bool) {
	v, ok := inv.Defines[name]
	return v, ok
}

// DefineInt returns a numeric build define.
func (inv *Invocation) DefineInt(name string) (int, error) {
	v, ok := inv.Defines[name]
	if !ok {
		return 0, errors.Errorf("cpu: kernel %q: missing define %s", inv.Name, name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("cpu: kernel %q: define %s=%q is not an integer", inv.Name, name, v)
	}
	return n, nil
}

// ElemKind resolves the element kind named by a type define such as
// "-D VAR_TYPE=int".
func (inv *Invocation) ElemKind(name string) (hostbuf.Kind, error) {
	v, ok := inv.Defines[name]
	if !ok {
		return hostbuf.Invalid, errors.Errorf("cpu: kernel %q: missing define %s", inv.Name, name)
	}
	k := hostbuf.KindByCLName(v)
	if k == hostbuf.Invalid {
		return hostbuf.Invalid, errors.Errorf("cpu: kernel %q: define %s=%q names no element type", inv.Name, name, v)
	}
	return k, nil
}

// Bytes returns the raw bytes of buffer argument i.
func (inv *Invocation) Bytes(i int) []byte {
	arg := inv.Args[i]
	if arg.Kind != driver.ArgBuffer {
		panic("cpu: argument is not a buffer")
	}
	data, err := arg.Buffer.(*memBuffer).bytes()
	if err != nil {
		panic(err)
	}
	return data
}

// Item is one work item's view of an invocation, mirroring the index
// builtins of the kernel language.
type Item struct {
	inv    *Invocation
	group  [3]int
	local  [3]int
	lsize  [3]int
	gsize  [3]int
	offset [3]int
	bar    *barrier
	locals [][]byte
}

// GlobalID returns the work item's global index in dim, offset included.
func (wi *Item) GlobalID(dim int) int {
	return wi.offset[dim] + wi.group[dim]*wi.lsize[dim] + wi.local[dim]
}

// LocalID returns the index within the work-group.
func (wi *Item) LocalID(dim int) int { return wi.local[dim] }

// GroupID returns the work-group index.
func (wi *Item) GroupID(dim int) int { return wi.group[dim] }

// GlobalSize returns the global extent of dim (1 beyond the range's
// dimensionality).
func (wi *Item) GlobalSize(dim int) int {
	if wi.gsize[dim] == 0 {
		return 1
	}
	return wi.gsize[dim]
}

// LocalSize returns the work-group extent of dim.
func (wi *Item) LocalSize(dim int) int {
	if wi.lsize[dim] == 0 {
		return 1
	}
	return wi.lsize[dim]
}

// Barrier blocks until every item of the work-group has reached it.
func (wi *Item) Barrier() { wi.bar.await() }

// Arg views buffer argument i as a []T.
func Arg[T hostbuf.Element](wi *Item, i int) []T {
	return bytesAs[T](wi.inv.Bytes(i))
}

// ScalarArg decodes immediate argument i as a T.
func ScalarArg[T hostbuf.Element](wi *Item, i int) T {
	arg := wi.inv.Args[i]
	if arg.Kind != driver.ArgScalar {
		panic("cpu: argument is not a scalar")
	}
	if len(arg.Value) != hostbuf.SizeOf[T]() {
		panic("cpu: scalar argument size mismatch")
	}
	return *(*T)(unsafe.Pointer(&arg.Value[0]))
}

// LocalArg views the work-group's scratch allocation for argument i as a
// []T. The scratch is shared by the group's items and zeroed per group.
func LocalArg[T hostbuf.Element](wi *Item, i int) []T {
	if wi.inv.Args[i].Kind != driver.ArgLocal {
		panic("cpu: argument is not local scratch")
	}
	return bytesAs[T](wi.locals[i])
}

func bytesAs[T hostbuf.Element](data []byte) []T {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/hostbuf.SizeOf[T]())
}

// barrier synchronizes the work items of one group. A panicking item aborts
// it so the surviving items cannot deadlock.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	count   int
	phase   int
	aborted bool
}

func newBarrier(n int) *barrier {
	b := &barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) await() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.aborted {
		return
	}
	phase := b.phase
	b.count++
	if b.count == b.n {
		b.count = 0
		b.phase++
		b.cond.Broadcast()
		return
	}
	for phase == b.phase && !b.aborted {
		b.cond.Wait()
	}
}

func (b *barrier) abort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aborted = true
	b.cond.Broadcast()
}
