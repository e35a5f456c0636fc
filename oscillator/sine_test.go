package oscillator_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"pipelined.dev/synth"
	"pipelined.dev/synth/native"
	"pipelined.dev/synth/oscillator"
	"pipelined.dev/synth/signal"
)

const (
	sampleRate = 48000
	middleC    = 261.62
	epsilon    = 1e-6
)

// render returns copies of consecutive blocks of generator output.
func render(t *testing.T, s *oscillator.Sine, channels int, blocks ...int) []float32 {
	t.Helper()
	var result []float32
	for _, frames := range blocks {
		buf, err := s.Process(frames, channels)
		require.NoError(t, err)
		result = append(result, buf.Samples()...)
	}
	return result
}

func TestDeterministicOutput(t *testing.T) {
	s := oscillator.New(sampleRate, oscillator.WithFrequency(middleC), oscillator.WithAmplitude(0.5))
	defer s.Release()

	out := render(t, s, 2, 4)
	assert.Equal(t, float32(0), out[0])
	assert.Equal(t, float32(0), out[1])
	expected := math.Sin(2*math.Pi*middleC/sampleRate) * 0.5
	assert.InDelta(t, 0.01712, expected, 1e-5)
	assert.InDelta(t, expected, out[2], epsilon)
	assert.InDelta(t, expected, out[3], epsilon)
}

func TestPhaseContinuity(t *testing.T) {
	tests := []struct {
		frames   int
		channels int
	}{
		{frames: 512, channels: 2},
		{frames: 480, channels: 1},
		{frames: 7, channels: 6},
	}
	for _, test := range tests {
		whole := oscillator.New(sampleRate, oscillator.WithFrequency(middleC), oscillator.WithAmplitude(0.5))
		split := oscillator.New(sampleRate, oscillator.WithFrequency(middleC), oscillator.WithAmplitude(0.5))

		expected := render(t, whole, test.channels, 2*test.frames)
		result := render(t, split, test.channels, test.frames, test.frames)
		assert.InDeltaSlice(t, expected, result, epsilon)
		assert.InDelta(t, whole.Phase(), split.Phase(), epsilon)

		whole.Release()
		split.Release()
	}
}

func TestPhaseSurvivesReallocation(t *testing.T) {
	whole := oscillator.New(sampleRate, oscillator.WithFrequency(1000))
	defer whole.Release()
	split := oscillator.New(sampleRate, oscillator.WithFrequency(1000))
	defer split.Release()

	expected := render(t, whole, 1, 300)
	result := render(t, split, 1, 100, 200)
	assert.InDeltaSlice(t, expected, result, epsilon)
	assert.Equal(t, 2, split.Reallocations())
}

func TestFrequencyChangeKeepsPhase(t *testing.T) {
	s := oscillator.New(sampleRate, oscillator.WithFrequency(440))
	defer s.Release()

	render(t, s, 1, 100)
	phase := s.Phase()
	assert.InDelta(t, math.Mod(100*440.0/sampleRate, 1), phase, epsilon)

	s.SetFrequency(880)
	out := render(t, s, 1, 2)
	assert.InDelta(t, math.Sin(2*math.Pi*phase), out[0], epsilon)
	assert.InDelta(t, math.Sin(2*math.Pi*(phase+880.0/sampleRate)), out[1], epsilon)
}

func TestPhaseStaysInRange(t *testing.T) {
	s := oscillator.New(sampleRate, oscillator.WithFrequency(20000), oscillator.WithPhase(3.75))
	defer s.Release()
	assert.Equal(t, 0.75, s.Phase())
	for i := 0; i < 100; i++ {
		render(t, s, 2, 128)
		assert.GreaterOrEqual(t, s.Phase(), 0.0)
		assert.Less(t, s.Phase(), 1.0)
	}
}

func TestParams(t *testing.T) {
	s := oscillator.New(44100)
	defer s.Release()
	assert.Equal(t, 44100, s.SampleRate())
	assert.Equal(t, oscillator.Params{Frequency: 440, Amplitude: 1}, s.Params())

	s.SetAmplitude(0.25)
	s.SetFrequency(100)
	assert.Equal(t, oscillator.Params{Frequency: 100, Amplitude: 0.25}, s.Params())

	s.Set(oscillator.Params{Frequency: 50, Amplitude: 0})
	out := render(t, s, 2, 16)
	assert.Equal(t, make([]float32, 32), out)
}

func TestNoReallocation(t *testing.T) {
	s := oscillator.New(sampleRate)
	defer s.Release()

	buf, err := s.Process(512, 2)
	require.NoError(t, err)
	handle := buf.Handle()
	for i := 0; i < 100; i++ {
		buf, err = s.Process(512, 2)
		require.NoError(t, err)
		assert.Equal(t, handle, buf.Handle())
	}
	assert.Equal(t, 1, s.Reallocations())
}

func TestReallocationOnShapeChange(t *testing.T) {
	base := native.ReadStats()
	s := oscillator.New(sampleRate)

	tests := []struct {
		frames   int
		channels int
		realloc  bool
	}{
		{frames: 512, channels: 2, realloc: true},
		{frames: 256, channels: 2, realloc: true},
		{frames: 256, channels: 1, realloc: true},
		{frames: 256, channels: 1, realloc: false},
		{frames: 1024, channels: 8, realloc: true},
	}
	var prev *signal.Buffer
	for _, test := range tests {
		buf, err := s.Process(test.frames, test.channels)
		require.NoError(t, err)
		assert.Equal(t, test.frames*test.channels, buf.Len())
		if test.realloc {
			if prev != nil {
				assert.False(t, prev.Allocated(), "old buffer must be released")
			}
		} else {
			assert.Same(t, prev, buf)
		}
		prev = buf
		assert.Equal(t, base.Regions+1, native.ReadStats().Regions)
	}
	assert.Equal(t, 4, s.Reallocations())
	s.Release()
	assert.Equal(t, base.Regions, native.ReadStats().Regions)
}

func TestInvalidShape(t *testing.T) {
	base := native.ReadStats()
	s := oscillator.New(sampleRate)
	defer s.Release()

	for _, shape := range [][2]int{{0, 2}, {4, 0}, {-1, 1}} {
		buf, err := s.Process(shape[0], shape[1])
		assert.Nil(t, buf)
		assert.ErrorIs(t, err, synth.ErrInvalidShape)
	}
	assert.Nil(t, s.Buffer())
	assert.Equal(t, base.Allocs, native.ReadStats().Allocs)
	assert.Zero(t, s.Reallocations())
}

func TestLeakFreeLifecycle(t *testing.T) {
	base := native.ReadStats()
	for i := 0; i < 50; i++ {
		s := oscillator.New(sampleRate)
		_, err := s.Process(128+i, 1+i%4)
		require.NoError(t, err)
		s.Release()
		s.Release()
	}
	after := native.ReadStats()
	assert.Equal(t, base.Regions, after.Regions)
	assert.Equal(t, base.Bytes, after.Bytes)
}

func TestReleaseAndReuse(t *testing.T) {
	s := oscillator.New(sampleRate)
	buf, err := s.Process(64, 2)
	require.NoError(t, err)
	s.Release()
	assert.False(t, buf.Allocated())

	buf, err = s.Process(64, 2)
	require.NoError(t, err)
	assert.True(t, buf.Allocated())
	assert.Equal(t, 2, s.Reallocations())
	s.Release()
}

func TestConcurrentParams(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := oscillator.New(sampleRate)
	defer s.Release()

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			s.Set(oscillator.Params{Frequency: float64(100 + i%1000), Amplitude: 0.5})
		}
	}()
	for i := 0; i < 1000; i++ {
		buf, err := s.Process(64, 2)
		require.NoError(t, err)
		for _, v := range buf.Samples() {
			if v > 1 || v < -1 {
				t.Fatalf("sample out of range: %v", v)
			}
		}
	}
	close(done)
	wg.Wait()
}

func TestProcessAllocs(t *testing.T) {
	s := oscillator.New(sampleRate)
	defer s.Release()
	_, err := s.Process(512, 2)
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = s.Process(512, 2)
	})
	assert.Zero(t, allocs)
}

func BenchmarkProcess(b *testing.B) {
	s := oscillator.New(sampleRate, oscillator.WithFrequency(middleC))
	defer s.Release()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.Process(512, 2); err != nil {
			b.Fatal(err)
		}
	}
}
