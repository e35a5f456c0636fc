package native

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Owned is the single owner of a native region.
type Owned[T Scalar] struct {
	r *raw[T]
}

// Option configures allocation of a new region.
type Option func(*options)

type options struct {
	alloc Allocator
}

// WithAllocator sets allocator for the region. DefaultAllocator is used if
// not provided.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.alloc = a
		}
	}
}

// New allocates a region of capacity scalars and returns its owner.
func New[T Scalar](capacity int, opts ...Option) (*Owned[T], error) {
	o := options{alloc: DefaultAllocator}
	for _, opt := range opts {
		opt(&o)
	}
	r, err := allocate[T](capacity, o.alloc)
	if err != nil {
		return nil, err
	}
	return own(r), nil
}

func own[T Scalar](r *raw[T]) *Owned[T] {
	o := &Owned[T]{r: r}
	runtime.SetFinalizer(o, (*Owned[T]).finalize)
	return o
}

// Allocated returns true if the region is live.
func (o *Owned[T]) Allocated() bool {
	return o != nil && o.r != nil && o.r.allocated()
}

// Len returns the number of scalars in the region. Zero if released.
func (o *Owned[T]) Len() int {
	if !o.Allocated() {
		return 0
	}
	return o.r.capacity()
}

// Data returns the region as a slice. The slice must not be used after
// Release.
func (o *Owned[T]) Data() ([]T, error) {
	if o == nil || o.r == nil {
		return nil, ErrUseAfterFree
	}
	return o.r.slice()
}

// MustData is Data that panics if the region is released.
func (o *Owned[T]) MustData() []T {
	data, err := o.Data()
	if err != nil {
		panic(err)
	}
	return data
}

// Handle returns the address of the region. Zero if released.
func (o *Owned[T]) Handle() uintptr {
	if !o.Allocated() {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(o.r.mem)))
}

// Release returns the region to its allocator. Calling Release more than
// once is safe.
func (o *Owned[T]) Release() {
	if o == nil || o.r == nil {
		return
	}
	r := o.r
	o.r = nil
	runtime.SetFinalizer(o, nil)
	if err := r.release(); err != nil {
		getLogger().Warn(fmt.Sprintf("native: free region: %v", err))
	}
}

// Move transfers the region to a new owner. The receiver becomes released.
func (o *Owned[T]) Move() *Owned[T] {
	if o == nil || o.r == nil {
		return &Owned[T]{}
	}
	r := o.r
	o.r = nil
	runtime.SetFinalizer(o, nil)
	return own(r)
}

// Clone allocates a new region with the same allocator and copies data
// into it.
func (o *Owned[T]) Clone() (*Owned[T], error) {
	src, err := o.Data()
	if err != nil {
		return nil, err
	}
	r, err := allocate[T](len(src), o.r.alloc)
	if err != nil {
		return nil, err
	}
	copy(r.data, src)
	return own(r), nil
}

// finalize releases region of unreachable owner and reports the leak.
func (o *Owned[T]) finalize() {
	if o.r == nil || !o.r.allocated() {
		return
	}
	size := len(o.r.mem)
	stats.leaked.Add(1)
	if debug.Load() {
		getLogger().Warn(fmt.Sprintf("native: leaked region of %d bytes released by finalizer", size))
	}
	if err := o.r.release(); err != nil {
		getLogger().Warn(fmt.Sprintf("native: free leaked region: %v", err))
	}
	o.r = nil
}
