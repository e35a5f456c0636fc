package synth

import (
	"fmt"

	"github.com/rs/xid"

	"pipelined.dev/synth/log"
	"pipelined.dev/synth/metric"
	"pipelined.dev/synth/native"
	"pipelined.dev/synth/signal"
)

// Node produces blocks of interleaved signal. Process returns a buffer of
// the requested shape owned by the node. The buffer must not be retained
// after the next call to Process or Release.
type Node interface {
	Process(frames, channels int) (*signal.Buffer, error)
	Release()
}

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// Provider owns the output buffer of a node. Nodes embed it and call
// Prepare at the beginning of Process. The buffer is allocated on the
// first call and reallocated only when the shape changes.
type Provider struct {
	uid           string
	name          string
	buf           *signal.Buffer
	alloc         native.Allocator
	log           log.Logger
	meter         *metric.Meter
	reallocations int
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithAllocator sets allocator for node buffers.
func WithAllocator(a native.Allocator) ProviderOption {
	return func(p *Provider) {
		p.alloc = a
	}
}

// WithNodeLogger sets logger for buffer lifecycle events. Nothing is logged
// in steady state.
func WithNodeLogger(l log.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithNodeMetric registers node meter which counts reallocations.
func WithNodeMetric(m *metric.Metric) ProviderOption {
	return func(p *Provider) {
		p.meter = m.Meter(p.uid, 0)
	}
}

// NewProvider returns provider for the node with provided name.
func NewProvider(name string, options ...ProviderOption) *Provider {
	p := &Provider{
		uid:  newUID(),
		name: name,
		log:  log.Silent,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// ID returns unique id of the node.
func (p *Provider) ID() string {
	return p.uid
}

// Name returns name of the node.
func (p *Provider) Name() string {
	return p.name
}

// Prepare returns buffer of requested shape. Non-positive or overflowing
// dimensions are rejected with ErrInvalidShape before any allocation. If
// shape differs from the current buffer, the current buffer is released
// before the new one is allocated.
func (p *Provider) Prepare(frames, channels int) (*signal.Buffer, error) {
	if !(signal.Shape{Frames: frames, Channels: channels}).Valid() {
		return nil, &signal.ShapeError{Frames: frames, Channels: channels}
	}
	if p.buf != nil && p.buf.Frames() == frames && p.buf.Channels() == channels && p.buf.Allocated() {
		return p.buf, nil
	}
	return p.reallocate(frames, channels)
}

func (p *Provider) reallocate(frames, channels int) (*signal.Buffer, error) {
	var old signal.Shape
	if p.buf != nil {
		old = p.buf.Shape()
		p.buf.Release()
		p.buf = nil
	}
	var opts []native.Option
	if p.alloc != nil {
		opts = append(opts, native.WithAllocator(p.alloc))
	}
	buf, err := signal.NewBuffer(frames, channels, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: allocate %dx%d: %w", p.name, p.uid, frames, channels, err)
	}
	p.buf = buf
	p.reallocations++
	p.meter.Reallocate()
	p.log.Debug(fmt.Sprintf("%s %s: buffer %v -> %v", p.name, p.uid, old, buf.Shape()))
	return buf, nil
}

// Buffer returns current buffer. Nil if nothing is allocated.
func (p *Provider) Buffer() *signal.Buffer {
	return p.buf
}

// Reallocations returns number of buffer allocations made by provider.
func (p *Provider) Reallocations() int {
	return p.reallocations
}

// Release returns the buffer memory. Provider can be used again after
// Release, next Prepare will allocate a new buffer.
func (p *Provider) Release() {
	if p.buf == nil {
		return
	}
	p.log.Debug(fmt.Sprintf("%s %s: release buffer %v", p.name, p.uid, p.buf.Shape()))
	p.buf.Release()
	p.buf = nil
}
