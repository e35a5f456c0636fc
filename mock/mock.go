// Package mock provides mocks for pipeline components and allows to
// execute integration tests.
package mock

import (
	"errors"
	"sync"

	"pipelined.dev/synth"
	"pipelined.dev/synth/native"
	"pipelined.dev/synth/signal"
)

// Node mocks a synth.Node interface. Zero value is a silent node.
type Node struct {
	// Value is written to every sample.
	Value float32
	// Shape overrides requested shape if valid.
	Shape signal.Shape
	// ErrorOnCall is returned by Process if set.
	ErrorOnCall error
	// Options are passed to the node provider.
	Options  []synth.ProviderOption
	Calls    int
	Released int
	provider *synth.Provider
}

// Process fills the node buffer with Value.
func (m *Node) Process(frames, channels int) (*signal.Buffer, error) {
	m.Calls++
	if m.ErrorOnCall != nil {
		return nil, m.ErrorOnCall
	}
	if m.provider == nil {
		m.provider = synth.NewProvider("mock", m.Options...)
	}
	if m.Shape.Valid() {
		frames, channels = m.Shape.Frames, m.Shape.Channels
	}
	buf, err := m.provider.Prepare(frames, channels)
	if err != nil {
		return nil, err
	}
	samples := buf.Samples()
	for i := range samples {
		samples[i] = m.Value
	}
	return buf, nil
}

// Reallocations returns number of buffer allocations.
func (m *Node) Reallocations() int {
	if m.provider == nil {
		return 0
	}
	return m.provider.Reallocations()
}

// Release implements synth.Node.
func (m *Node) Release() {
	m.Released++
	if m.provider != nil {
		m.provider.Release()
	}
}

// ErrNoMemory is returned by Allocator when it's configured to fail.
var ErrNoMemory = errors.New("mock: no memory")

// Allocator counts allocations and delegates to native.DefaultAllocator.
// It fails all allocations after Limit successful ones if Limit is
// positive.
type Allocator struct {
	m      sync.Mutex
	Limit  int
	allocs int
	frees  int
}

// Alloc implements native.Allocator.
func (a *Allocator) Alloc(size int) ([]byte, error) {
	a.m.Lock()
	defer a.m.Unlock()
	if a.Limit > 0 && a.allocs >= a.Limit {
		return nil, ErrNoMemory
	}
	a.allocs++
	return native.DefaultAllocator.Alloc(size)
}

// Free implements native.Allocator.
func (a *Allocator) Free(b []byte) error {
	a.m.Lock()
	a.frees++
	a.m.Unlock()
	return native.DefaultAllocator.Free(b)
}

// Allocs returns number of successful allocations.
func (a *Allocator) Allocs() int {
	a.m.Lock()
	defer a.m.Unlock()
	return a.allocs
}

// Frees returns number of frees.
func (a *Allocator) Frees() int {
	a.m.Lock()
	defer a.m.Unlock()
	return a.frees
}
