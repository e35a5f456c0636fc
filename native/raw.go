package native

import (
	"fmt"
	"math"
	"unsafe"
)

// raw is a contiguous region of capacity scalars. It's either fully
// allocated or fully released. Only Owned calls release.
type raw[T Scalar] struct {
	mem   []byte
	data  []T
	alloc Allocator
}

func allocate[T Scalar](capacity int, a Allocator) (*raw[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0: %d", ErrAllocation, capacity)
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if capacity > math.MaxInt/size {
		return nil, fmt.Errorf("%w: capacity overflow: %d", ErrAllocation, capacity)
	}
	n := capacity * size
	mem, err := a.Alloc(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocation, n, err)
	}
	if len(mem) < n {
		_ = a.Free(mem)
		return nil, fmt.Errorf("%w: allocator returned %d bytes, requested %d", ErrAllocation, len(mem), n)
	}
	if uintptr(unsafe.Pointer(unsafe.SliceData(mem)))%unsafe.Alignof(zero) != 0 {
		_ = a.Free(mem)
		return nil, fmt.Errorf("%w: misaligned region for %d byte scalar", ErrAllocation, size)
	}
	r := &raw[T]{
		mem:   mem,
		data:  unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(mem))), capacity),
		alloc: a,
	}
	stats.allocated(len(mem))
	return r, nil
}

func (r *raw[T]) allocated() bool {
	return r.mem != nil
}

func (r *raw[T]) capacity() int {
	return len(r.data)
}

func (r *raw[T]) slice() ([]T, error) {
	if r.mem == nil {
		return nil, ErrUseAfterFree
	}
	return r.data, nil
}

// release returns the region to its allocator. No-op if already released.
func (r *raw[T]) release() error {
	if r.mem == nil {
		return nil
	}
	mem := r.mem
	r.mem, r.data = nil, nil
	stats.released(len(mem))
	return r.alloc.Free(mem)
}
