// Package filter provides nodes that process output of other nodes.
package filter

import (
	"math"

	"pipelined.dev/synth"
	"pipelined.dev/synth/param"
	"pipelined.dev/synth/signal"
)

// LowPass is a one-pole low-pass filter over the output of another node.
// Input is copied into the filter's own buffer and filtered in place, so
// the two nodes never share memory.
type LowPass struct {
	*synth.Provider
	in         synth.Node
	sampleRate float64
	cutoff     *param.Float
	state      []float64 // last output per channel
}

// NewLowPass returns a filter for in with cutoff frequency in Hz. The
// filter doesn't own in, it must be released by the caller.
func NewLowPass(in synth.Node, sampleRate int, cutoff float64, options ...synth.ProviderOption) *LowPass {
	return &LowPass{
		Provider:   synth.NewProvider("lowpass", options...),
		in:         in,
		sampleRate: float64(sampleRate),
		cutoff:     param.NewFloat(cutoff),
	}
}

// Cutoff returns cutoff frequency.
func (f *LowPass) Cutoff() float64 {
	return f.cutoff.Load()
}

// SetCutoff sets cutoff frequency. It takes effect on the next Process.
func (f *LowPass) SetCutoff(hz float64) {
	f.cutoff.Store(hz)
}

// Process pulls a block from the input node and filters it. Shape is
// validated before the input is pulled.
func (f *LowPass) Process(frames, channels int) (*signal.Buffer, error) {
	buf, err := f.Prepare(frames, channels)
	if err != nil {
		return nil, err
	}
	in, err := f.in.Process(frames, channels)
	if err != nil {
		return nil, err
	}
	if len(f.state) != channels {
		f.state = make([]float64, channels)
	}
	in.CopyInto(buf)
	lowPass(buf.Samples(), f.state, coefficient(f.cutoff.Load(), f.sampleRate))
	return buf, nil
}

// coefficient returns smoothing factor for cutoff frequency. Non-positive
// cutoff passes the signal through.
func coefficient(cutoff, sampleRate float64) float64 {
	if cutoff <= 0 {
		return 1
	}
	return 1 - math.Exp(-2*math.Pi*cutoff/sampleRate)
}

func lowPass(samples []float32, state []float64, a float64) {
	channels := len(state)
	for i := 0; i+channels <= len(samples); i += channels {
		frame := samples[i : i+channels]
		for c, x := range frame {
			state[c] += a * (float64(x) - state[c])
			frame[c] = float32(state[c])
		}
	}
}
