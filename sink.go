package synth

import (
	"fmt"
	"time"

	"pipelined.dev/synth/log"
	"pipelined.dev/synth/metric"
	"pipelined.dev/synth/signal"
)

// Sink copies node output into buffers owned by the host. Fills of the
// same sink must not run concurrently.
type Sink struct {
	uid        string
	name       string
	node       Node
	log        log.Logger
	metric     *metric.Metric
	meter      *metric.Meter
	sampleRate int
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithLogger sets logger to Sink. If this option is not provided, silent
// logger is used.
func WithLogger(l log.Logger) SinkOption {
	return func(s *Sink) {
		if l != nil {
			s.log = l
		}
	}
}

// WithName sets name to Sink.
func WithName(n string) SinkOption {
	return func(s *Sink) {
		s.name = n
	}
}

// WithMetric adds metrics for this sink.
func WithMetric(m *metric.Metric) SinkOption {
	return func(s *Sink) {
		s.metric = m
	}
}

// WithSampleRate sets sample rate of the host stream. It's used to detect
// fills that take longer than the buffer duration.
func WithSampleRate(sampleRate int) SinkOption {
	return func(s *Sink) {
		s.sampleRate = sampleRate
	}
}

// NewSink creates a new sink for the node.
func NewSink(node Node, options ...SinkOption) *Sink {
	s := &Sink{
		uid:  newUID(),
		name: "sink",
		node: node,
		log:  log.Silent,
	}
	for _, option := range options {
		option(s)
	}
	s.meter = s.metric.Meter(s.uid, s.sampleRate)
	s.log.Debug(fmt.Sprintf("%s %s: created", s.name, s.uid))
	return s
}

// ID returns unique id of the sink.
func (s *Sink) ID() string {
	return s.uid
}

// Node returns the node of the sink.
func (s *Sink) Node() Node {
	return s.node
}

// Fill fills interleaved host buffer with the next block of node output.
// Length of host must be a positive multiple of channels, otherwise
// ErrInvalidShape is returned and host is left untouched. If node fails or
// returns no buffer, host is filled with silence and the error is returned.
func (s *Sink) Fill(host []float32, channels int) error {
	start := time.Now()
	shape, err := signal.ShapeOf(len(host), channels)
	if err != nil {
		return err
	}
	buf, err := s.node.Process(shape.Frames, shape.Channels)
	if err == nil && !buf.Allocated() {
		err = ErrUseAfterFree
	}
	if err != nil {
		clear(host)
		s.meter.Skip()
		return fmt.Errorf("%s %s: fill %v: %w", s.name, s.uid, shape, err)
	}
	n := buf.CopyTo(host)
	if n < len(host) {
		clear(host[n:])
		s.meter.Truncate(len(host) - n)
	} else if l := buf.Len(); l > n {
		s.meter.Truncate(l - n)
	}
	s.meter.Fill(shape.Frames, time.Since(start))
	return nil
}

// FillBuffer fills native buffer with the next block of node output. It
// silently returns if dst is released or node can't produce the block, in
// the latter case dst is filled with silence.
func (s *Sink) FillBuffer(dst *signal.Buffer) {
	if !dst.Allocated() {
		return
	}
	start := time.Now()
	buf, err := s.node.Process(dst.Frames(), dst.Channels())
	if err != nil || !buf.Allocated() {
		dst.Zero()
		s.meter.Skip()
		return
	}
	n := buf.CopyInto(dst)
	if l := buf.Len(); l > n {
		s.meter.Truncate(l - n)
	}
	s.meter.Fill(dst.Frames(), time.Since(start))
}

// Callback returns a function for hosts that pull interleaved buffers
// without error reporting. Failed fills produce silence and are counted by
// sink metrics.
func (s *Sink) Callback(channels int) func([]float32) {
	return func(out []float32) {
		if err := s.Fill(out, channels); err != nil {
			clear(out)
		}
	}
}
