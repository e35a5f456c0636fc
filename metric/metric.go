// Package metric provides counters for buffer fills. Counters are atomic,
// so a Meter can be updated from the real-time goroutine without locks or
// allocations and read from any other goroutine.
package metric

import (
	"expvar"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/synth/signal"
)

const (
	// FillCounter measures number of fills.
	FillCounter = "Fills"
	// SampleCounter measures number of produced samples per channel.
	SampleCounter = "Samples"
	// SkipCounter measures number of fills replaced with silence.
	SkipCounter = "Skipped"
	// TruncateCounter measures number of samples dropped by truncating copies.
	TruncateCounter = "Truncated"
	// OverrunCounter measures number of fills that took longer than
	// the duration of the buffer.
	OverrunCounter = "Overruns"
	// ReallocationCounter measures number of buffer reallocations.
	ReallocationCounter = "Reallocations"
	// LatencyCounter is the duration of the last fill.
	LatencyCounter = "Latency"
	// PeakLatencyCounter is the longest fill duration.
	PeakLatencyCounter = "PeakLatency"
	// DurationCounter is the duration of produced signal.
	DurationCounter = "Duration"
)

// Metric contains component's Meters.
type Metric struct {
	m      sync.Mutex
	meters map[string]*Meter
}

// Measure is a snapshot of full metric with all counters.
type Measure map[string]map[string]interface{}

// Meter creates new meter for component. If id matches with existing
// meter, it's replaced with the new one.
func (m *Metric) Meter(componentID string, sampleRate int) *Meter {
	if m == nil {
		return nil
	}
	meter := &Meter{sampleRate: sampleRate}
	m.m.Lock()
	defer m.m.Unlock()
	if m.meters == nil {
		m.meters = make(map[string]*Meter)
	}
	m.meters[componentID] = meter
	return meter
}

// Measure returns Metric's measures.
func (m *Metric) Measure() Measure {
	if m == nil {
		return nil
	}
	r := make(Measure)
	m.m.Lock()
	defer m.m.Unlock()
	for id, meter := range m.meters {
		r[id] = meter.Values()
	}
	return r
}

// Publish exposes measures as expvar variable with provided name.
func (m *Metric) Publish(name string) {
	expvar.Publish(name, expvar.Func(func() interface{} {
		return m.Measure()
	}))
}

// Meter contains all component's counters. Nil meter is valid and
// doesn't count anything.
type Meter struct {
	sampleRate    int
	fills         atomic.Int64
	samples       atomic.Int64
	skipped       atomic.Int64
	truncated     atomic.Int64
	overruns      atomic.Int64
	reallocations atomic.Int64
	latency       atomic.Int64
	peak          atomic.Int64
}

// Fill captures metrics after a fill of frames is done in elapsed time.
func (m *Meter) Fill(frames int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fills.Add(1)
	m.samples.Add(int64(frames))
	m.latency.Store(int64(elapsed))
	if int64(elapsed) > m.peak.Load() {
		m.peak.Store(int64(elapsed))
	}
	if m.sampleRate > 0 && elapsed > signal.DurationOf(m.sampleRate, int64(frames)) {
		m.overruns.Add(1)
	}
}

// Skip captures a fill replaced with silence.
func (m *Meter) Skip() {
	if m == nil {
		return
	}
	m.skipped.Add(1)
}

// Truncate captures samples dropped by truncating copy.
func (m *Meter) Truncate(samples int) {
	if m == nil || samples <= 0 {
		return
	}
	m.truncated.Add(int64(samples))
}

// Reallocate captures buffer reallocation.
func (m *Meter) Reallocate() {
	if m == nil {
		return
	}
	m.reallocations.Add(1)
}

// Values returns snapshot of meter counters.
func (m *Meter) Values() map[string]interface{} {
	if m == nil {
		return nil
	}
	samples := m.samples.Load()
	v := map[string]interface{}{
		FillCounter:         m.fills.Load(),
		SampleCounter:       samples,
		SkipCounter:         m.skipped.Load(),
		TruncateCounter:     m.truncated.Load(),
		OverrunCounter:      m.overruns.Load(),
		ReallocationCounter: m.reallocations.Load(),
		LatencyCounter:      time.Duration(m.latency.Load()),
		PeakLatencyCounter:  time.Duration(m.peak.Load()),
	}
	if m.sampleRate > 0 {
		v[DurationCounter] = signal.DurationOf(m.sampleRate, samples)
	}
	return v
}
