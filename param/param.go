/*
Package param hands parameter values from control goroutines to the
goroutine that fills audio buffers.

Buffer fills run on a real-time goroutine and must never block on locks
held by control code. Parameters are published as immutable values: a
writer builds a new value and swaps a pointer, a fill loads the pointer
once at the start and uses that value for the whole buffer. A fill always
observes either the old or the new value, never a mix of both.
*/
package param

import (
	"math"
	"sync/atomic"
)

// Cell holds a value of T published by writers and loaded by a fill.
// Zero value holds the zero T.
type Cell[T any] struct {
	p atomic.Pointer[T]
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	var c Cell[T]
	c.Store(v)
	return &c
}

// Load returns current value. It doesn't allocate and the returned value
// must not be modified.
func (c *Cell[T]) Load() *T {
	if v := c.p.Load(); v != nil {
		return v
	}
	var zero T
	c.p.CompareAndSwap(nil, &zero)
	return c.p.Load()
}

// Store publishes v.
func (c *Cell[T]) Store(v T) {
	c.p.Store(&v)
}

// Update applies fn to the current value and publishes the result. It's
// safe to call from multiple goroutines; fn may be called more than once.
func (c *Cell[T]) Update(fn func(T) T) T {
	for {
		old := c.Load()
		v := fn(*old)
		if c.p.CompareAndSwap(old, &v) {
			return v
		}
	}
}

// Float is a float64 value that can be stored and loaded atomically.
type Float struct {
	bits atomic.Uint64
}

// NewFloat returns a Float holding v.
func NewFloat(v float64) *Float {
	var f Float
	f.Store(v)
	return &f
}

// Load returns the value.
func (f *Float) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Store sets the value.
func (f *Float) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}
