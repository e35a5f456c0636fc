package metric_test

import (
	"expvar"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"pipelined.dev/synth/metric"
)

func TestMeter(t *testing.T) {
	defer goleak.VerifyNone(t)
	// test cases
	var tests = []struct {
		*metric.Metric
		routines int
		fills    int
		frames   int
		expected int64
	}{
		{
			Metric:   &metric.Metric{},
			routines: 2,
			fills:    10,
			frames:   100,
			expected: 10 * 100,
		},
		{
			Metric:   &metric.Metric{},
			routines: 10,
			fills:    5,
			frames:   100,
			expected: 5 * 100,
		},
		{
			routines: 100,
			fills:    5,
			frames:   100,
			expected: 0,
		},
	}

	// function to test meter.
	testFn := func(m *metric.Meter, wg *sync.WaitGroup, fills int, frames int) {
		for i := 0; i < fills; i++ {
			m.Fill(frames, time.Microsecond)
		}
		wg.Done()
	}

	for _, c := range tests {
		m := c.Metric
		wg := &sync.WaitGroup{}
		wg.Add(c.routines)
		for i := 0; i < c.routines; i++ {
			meter := m.Meter(fmt.Sprintf("test %d", i), 44100)
			go testFn(meter, wg, c.fills, c.frames)
		}
		wg.Wait()

		measure := m.Measure()
		if m == nil {
			assert.Nil(t, measure)
			continue
		}
		assert.Len(t, measure, c.routines)
		for _, values := range measure {
			assert.Equal(t, c.expected, values[metric.SampleCounter])
			assert.Equal(t, int64(c.fills), values[metric.FillCounter])
			assert.Equal(t, int64(0), values[metric.OverrunCounter])
		}
	}
}

func TestMeterCounters(t *testing.T) {
	m := &metric.Metric{}
	meter := m.Meter("sink", 1000)

	// 10 frames at 1000 Hz is a 10ms budget.
	meter.Fill(10, time.Millisecond)
	meter.Fill(10, 20*time.Millisecond)
	meter.Fill(10, 2*time.Millisecond)
	meter.Skip()
	meter.Truncate(60)
	meter.Truncate(0)
	meter.Reallocate()

	values := m.Measure()["sink"]
	assert.Equal(t, int64(3), values[metric.FillCounter])
	assert.Equal(t, int64(30), values[metric.SampleCounter])
	assert.Equal(t, int64(1), values[metric.OverrunCounter])
	assert.Equal(t, int64(1), values[metric.SkipCounter])
	assert.Equal(t, int64(60), values[metric.TruncateCounter])
	assert.Equal(t, int64(1), values[metric.ReallocationCounter])
	assert.Equal(t, 2*time.Millisecond, values[metric.LatencyCounter])
	assert.Equal(t, 20*time.Millisecond, values[metric.PeakLatencyCounter])
	assert.InDelta(t, 30*time.Millisecond, values[metric.DurationCounter], float64(time.Microsecond))
}

func TestMeterReplace(t *testing.T) {
	m := &metric.Metric{}
	m.Meter("node", 0).Fill(1, 0)
	m.Meter("node", 0)
	assert.Equal(t, int64(0), m.Measure()["node"][metric.FillCounter])
	assert.NotContains(t, m.Measure()["node"], metric.DurationCounter)
}

func TestNilMeter(t *testing.T) {
	var meter *metric.Meter
	meter.Fill(1, time.Second)
	meter.Skip()
	meter.Truncate(1)
	meter.Reallocate()
	assert.Nil(t, meter.Values())
}

func TestPublish(t *testing.T) {
	m := &metric.Metric{}
	m.Meter("sink", 48000).Fill(480, time.Microsecond)
	m.Publish("synth.test")
	v := expvar.Get("synth.test")
	if assert.NotNil(t, v) {
		assert.Contains(t, v.String(), `"Fills":1`)
	}
}

func TestFillAllocs(t *testing.T) {
	meter := (&metric.Metric{}).Meter("sink", 48000)
	allocs := testing.AllocsPerRun(100, func() {
		meter.Fill(512, time.Microsecond)
	})
	assert.Zero(t, allocs)
}
