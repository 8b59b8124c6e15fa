package hostbuf

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Release is the strategy invoked when the last reference to a backing store
// drops. The default (nil) simply lets the garbage collector reclaim the
// memory; ReleaseNone marks memory owned by an external allocator.
type Release func(data []byte)

// ReleaseNone leaves the backing memory untouched for its external owner.
func ReleaseNone([]byte) {}

// store is a reference-counted backing array shared by every Buffer, Raw
// view and in-flight device operation that references it.
type store struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
	free     Release
}

func newStore(size int, free Release) *store {
	s := &store{
		data: make([]byte, size),
		free: free,
	}
	s.refCount.Store(1)
	return s
}

func adoptStore(data []byte, free Release) *store {
	s := &store{
		data: data,
		free: free,
	}
	s.refCount.Store(1)
	return s
}

// addRef increments the reference count.
func (s *store) addRef() {
	s.refCount.Add(1)
}

// release decrements the reference count and runs the release strategy when
// it reaches 0.
func (s *store) release() {
	if s.refCount.Add(-1) == 0 {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.free != nil {
			s.free(s.data)
		}
		s.data = nil
	}
}

// isUnique returns true if this store has only one reference.
func (s *store) isUnique() bool {
	return s.refCount.Load() == 1
}

// Buffer is a shared, fixed-length array of elements. Copies of the value
// alias the same backing store; Retain and Release manage the store's
// reference count when a component takes ownership of its own handle.
//
// The zero value has element count 0 and no backing store.
type Buffer[T Element] struct {
	store *store
	n     int
}

// New allocates a zeroed buffer of n elements with the default release
// strategy.
func New[T Element](n int) Buffer[T] {
	return Buffer[T]{store: newStore(n*SizeOf[T](), nil), n: n}
}

// FromSlice allocates a buffer of len(src) elements and copies src into it.
func FromSlice[T Element](src []T) Buffer[T] {
	b := New[T](len(src))
	copy(b.Data(), src)
	return b
}

// Adopt wraps an existing slice's memory without copying. The release
// strategy runs when the last reference drops; pass ReleaseNone for memory
// owned elsewhere.
func Adopt[T Element](src []T, free Release) Buffer[T] {
	if len(src) == 0 {
		return Buffer[T]{}
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), len(src)*SizeOf[T]())
	return Buffer[T]{store: adoptStore(data, free), n: len(src)}
}

// Len returns the element count.
func (b Buffer[T]) Len() int {
	return b.n
}

// ByteSize returns the authoritative transfer size in bytes:
// element count times element size.
func (b Buffer[T]) ByteSize() int {
	return b.n * SizeOf[T]()
}

// IsNil reports whether the buffer has no backing store.
func (b Buffer[T]) IsNil() bool {
	return b.store == nil
}

// Data returns the typed element view of the backing store.
func (b Buffer[T]) Data() []T {
	if b.store == nil || b.n == 0 {
		return nil
	}
	//nolint:gosec // zero-copy view, length fixed at allocation
	return unsafe.Slice((*T)(unsafe.Pointer(&b.store.data[0])), b.n)
}

// Bytes returns the raw byte view of the backing store.
func (b Buffer[T]) Bytes() []byte {
	if b.store == nil {
		return nil
	}
	return b.store.data
}

// Retain increments the store's reference count and returns the buffer.
// Components that keep a handle beyond the caller's scope retain it first.
func (b Buffer[T]) Retain() Buffer[T] {
	if b.store != nil {
		b.store.addRef()
	}
	return b
}

// Release drops one reference; the release strategy runs when the count
// reaches zero. Using the buffer after its last release is a programmer
// error.
func (b Buffer[T]) Release() {
	if b.store != nil {
		b.store.release()
	}
}

// IsUnique returns true if this buffer is the only reference to its store.
func (b Buffer[T]) IsUnique() bool {
	return b.store != nil && b.store.isUnique()
}

// Reset releases the current store and rebinds the handle to src under the
// given release strategy. A nil src leaves the handle empty.
func (b *Buffer[T]) Reset(src []T, free Release) {
	if b.store != nil {
		b.store.release()
	}
	if src == nil {
		*b = Buffer[T]{}
		return
	}
	*b = Adopt(src, free)
}

// Raw returns the type-erased view of the buffer, sharing the same store.
func (b Buffer[T]) Raw() Raw {
	return Raw{store: b.store, n: b.n, kind: KindOf[T]()}
}

// Raw is the type-erased view of a shared buffer: backing store, element
// count and runtime element kind. It is what the positional argument binder
// and the dispatch engine traffic in.
type Raw struct {
	store *store
	n     int
	kind  Kind
}

// Len returns the element count.
func (r Raw) Len() int {
	return r.n
}

// Kind returns the runtime element kind.
func (r Raw) Kind() Kind {
	return r.kind
}

// ByteSize returns the transfer size in bytes.
func (r Raw) ByteSize() int {
	if r.kind == Invalid {
		return 0
	}
	return r.n * r.kind.Size()
}

// IsNil reports whether the view has no backing store.
func (r Raw) IsNil() bool {
	return r.store == nil
}

// Bytes returns the raw byte view of the backing store.
func (r Raw) Bytes() []byte {
	if r.store == nil {
		return nil
	}
	return r.store.data
}

// Retain increments the store's reference count and returns the view.
func (r Raw) Retain() Raw {
	if r.store != nil {
		r.store.addRef()
	}
	return r
}

// Release drops one reference to the backing store.
func (r Raw) Release() {
	if r.store != nil {
		r.store.release()
	}
}

// View reinterprets a type-erased view as a typed buffer. It fails if T does
// not match the view's element kind.
func View[T Element](r Raw) (Buffer[T], error) {
	if want := KindOf[T](); r.kind != want {
		return Buffer[T]{}, fmt.Errorf("hostbuf: view kind is %s, not %s", r.kind, want)
	}
	return Buffer[T]{store: r.store, n: r.n}, nil
}
