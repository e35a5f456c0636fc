// Package signal provides interleaved audio buffers backed by native memory
// and helpers to convert samples for hosts:
//   - Buffer is a channel-interleaved view over a native region;
//   - Interleaved converts float samples to int PCM of a given bit depth.
package signal

import (
	"math"
	"time"
)

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth24 is 24 bit depth.
	BitDepth24 = BitDepth(24)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// BitDepth contains values required for float-to-int conversion.
type BitDepth int

// multiplier is used when float to int conversion is done.
func (bitDepth BitDepth) multiplier() float64 {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth24:
		return 1<<23 - 1
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// Interleaved is an interleaved float32 signal, the layout hosts exchange.
type Interleaved []float32

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// AsInts converts the signal to int PCM and writes it into ints. Values
// outside [-1, 1] are clipped. Number of converted samples is returned.
func (floats Interleaved) AsInts(bitDepth BitDepth, ints []int) int {
	n := min(len(floats), len(ints))
	multiplier := bitDepth.multiplier()
	for i := range floats[:n] {
		v := float64(floats[i])
		switch {
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		}
		ints[i] = int(v * multiplier)
	}
	return n
}
