package signal_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/synth/signal"
)

func TestInterleavedAsInts(t *testing.T) {
	tests := []struct {
		floats   []float32
		bitDepth signal.BitDepth
		size     int
		expected []int
	}{
		{
			floats:   []float32{1, 0.5, 0, -0.5, -1},
			bitDepth: signal.BitDepth16,
			size:     5,
			expected: []int{math.MaxInt16, math.MaxInt16 / 2, 0, -math.MaxInt16 / 2, -math.MaxInt16},
		},
		{
			floats:   []float32{2, -2},
			bitDepth: signal.BitDepth8,
			size:     2,
			expected: []int{math.MaxInt8, -math.MaxInt8},
		},
		{
			floats:   []float32{1, 1, 1},
			bitDepth: signal.BitDepth24,
			size:     2,
			expected: []int{1<<23 - 1, 1<<23 - 1},
		},
		{
			floats:   []float32{1},
			size:     3,
			expected: []int{1, 0, 0},
		},
		{
			floats:   nil,
			size:     0,
			expected: []int{},
		},
	}

	for _, test := range tests {
		ints := make([]int, test.size)
		n := signal.Interleaved(test.floats).AsInts(test.bitDepth, ints)
		assert.Equal(t, min(len(test.floats), test.size), n)
		assert.Equal(t, test.expected, ints)
	}
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, time.Second, signal.DurationOf(48000, 48000))
	assert.InDelta(t, 10*time.Millisecond, signal.DurationOf(44100, 441), float64(time.Microsecond))
}
