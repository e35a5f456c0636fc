package main

import (
	"flag"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"pipelined.dev/synth"
	"pipelined.dev/synth/config"
	"pipelined.dev/synth/filter"
	"pipelined.dev/synth/log"
	"pipelined.dev/synth/metric"
	"pipelined.dev/synth/oscillator"
)

// settings are signal and host flags common for all commands.
type settings struct {
	config.Config
	duration time.Duration
	out      io.Writer
	// log is the command logger, also used for native leak reports.
	log *logrus.Entry
}

func (s *settings) register(fs *flag.FlagSet) {
	fs.IntVar(&s.SampleRate, "rate", s.SampleRate, "sample rate in Hz")
	fs.IntVar(&s.Channels, "channels", s.Channels, "number of output channels")
	fs.IntVar(&s.BufferSize, "buffer", s.BufferSize, "host buffer size in frames")
	fs.Float64Var(&s.Frequency, "freq", s.Frequency, "sine frequency in Hz")
	fs.Float64Var(&s.Amplitude, "amp", s.Amplitude, "sine amplitude")
	fs.Float64Var(&s.Cutoff, "cutoff", s.Cutoff, "low-pass cutoff in Hz, 0 disables the filter")
	fs.DurationVar(&s.duration, "duration", 2*time.Second, "duration of the signal")
}

// frames returns number of frames for the duration.
func (s *settings) frames() int {
	return int(s.duration.Seconds() * float64(s.SampleRate))
}

// chain is a generator with optional low-pass filter.
type chain struct {
	sine   *oscillator.Sine
	filter *filter.LowPass
}

func (s *settings) newChain(l log.Logger, m *metric.Metric) *chain {
	options := []synth.ProviderOption{
		synth.WithNodeLogger(l),
		synth.WithNodeMetric(m),
	}
	c := &chain{
		sine: oscillator.New(s.SampleRate,
			oscillator.WithFrequency(s.Frequency),
			oscillator.WithAmplitude(s.Amplitude),
			oscillator.WithProvider(options...),
		),
	}
	if s.Cutoff > 0 {
		c.filter = filter.NewLowPass(c.sine, s.SampleRate, s.Cutoff, options...)
	}
	return c
}

// output returns the last node of the chain.
func (c *chain) output() synth.Node {
	if c.filter != nil {
		return c.filter
	}
	return c.sine
}

func (c *chain) release() {
	if c.filter != nil {
		c.filter.Release()
	}
	c.sine.Release()
}

func (s *settings) sink(c *chain, l log.Logger, m *metric.Metric) *synth.Sink {
	return synth.NewSink(c.output(),
		synth.WithLogger(l),
		synth.WithMetric(m),
		synth.WithSampleRate(s.SampleRate),
	)
}
