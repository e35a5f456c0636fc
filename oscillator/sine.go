// Package oscillator provides phase-continuous signal generators.
package oscillator

import (
	"math"

	"pipelined.dev/synth"
	"pipelined.dev/synth/param"
	"pipelined.dev/synth/signal"
)

const (
	defaultFrequency = 440.0
	defaultAmplitude = 1.0
)

// Params of the sine generator. Frequency is in Hz, expected range is
// (0, sampleRate/2). Amplitude is expected in [0, 1]. Values are not
// validated.
type Params struct {
	Frequency float64
	Amplitude float64
}

// Sine is a phase-continuous sine generator. Parameters can be changed
// from any goroutine, Process must be called from a single one.
type Sine struct {
	*synth.Provider
	sampleRate float64
	params     *param.Cell[Params]
	phase      float64
}

// Option configures a Sine.
type Option func(*Sine)

// WithFrequency sets initial frequency.
func WithFrequency(hz float64) Option {
	return func(s *Sine) {
		s.params.Update(func(p Params) Params {
			p.Frequency = hz
			return p
		})
	}
}

// WithAmplitude sets initial amplitude.
func WithAmplitude(amplitude float64) Option {
	return func(s *Sine) {
		s.params.Update(func(p Params) Params {
			p.Amplitude = amplitude
			return p
		})
	}
}

// WithPhase sets initial phase. It's wrapped into [0, 1).
func WithPhase(phase float64) Option {
	return func(s *Sine) {
		s.phase = wrap(phase)
	}
}

// WithProvider sets provider options for the generator buffer.
func WithProvider(options ...synth.ProviderOption) Option {
	return func(s *Sine) {
		s.Provider = synth.NewProvider("sine", options...)
	}
}

// New returns a sine generator for the sample rate. The sample rate is
// fixed for the lifetime of the generator.
func New(sampleRate int, options ...Option) *Sine {
	s := &Sine{
		Provider:   synth.NewProvider("sine"),
		sampleRate: float64(sampleRate),
		params: param.NewCell(Params{
			Frequency: defaultFrequency,
			Amplitude: defaultAmplitude,
		}),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SampleRate returns sample rate of the generator.
func (s *Sine) SampleRate() int {
	return int(s.sampleRate)
}

// Params returns current parameters.
func (s *Sine) Params() Params {
	return *s.params.Load()
}

// Set replaces all parameters at once.
func (s *Sine) Set(p Params) {
	s.params.Store(p)
}

// SetFrequency sets frequency. It takes effect on the next Process.
func (s *Sine) SetFrequency(hz float64) {
	s.params.Update(func(p Params) Params {
		p.Frequency = hz
		return p
	})
}

// SetAmplitude sets amplitude. It takes effect on the next Process.
func (s *Sine) SetAmplitude(amplitude float64) {
	s.params.Update(func(p Params) Params {
		p.Amplitude = amplitude
		return p
	})
}

// Phase returns the position within the wave cycle where the next block
// starts. It must be called from the goroutine that calls Process.
func (s *Sine) Phase() float64 {
	return s.phase
}

// Process fills the owned buffer with the next block of sine wave. Every
// channel of a frame gets the same value.
func (s *Sine) Process(frames, channels int) (*signal.Buffer, error) {
	buf, err := s.Prepare(frames, channels)
	if err != nil {
		return nil, err
	}
	p := s.params.Load()
	s.phase = fillSine(buf.Samples(), channels, s.phase, p.Frequency/s.sampleRate, p.Amplitude)
	return buf, nil
}

// fillSine writes one sine value per frame into every channel and returns
// the phase after the last frame.
func fillSine(samples []float32, channels int, phase, increment, amplitude float64) float64 {
	for i := 0; i+channels <= len(samples); i += channels {
		v := float32(math.Sin(phase*2*math.Pi) * amplitude)
		frame := samples[i : i+channels]
		for c := range frame {
			frame[c] = v
		}
		phase += increment
		phase -= math.Floor(phase)
	}
	return phase
}

// wrap returns fractional part of phase in [0, 1).
func wrap(phase float64) float64 {
	return phase - math.Floor(phase)
}
