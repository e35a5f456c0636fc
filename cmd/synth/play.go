package main

import (
	"context"
	"errors"
	"flag"
	"os"
	ossignal "os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"pipelined.dev/synth/metric"
	"pipelined.dev/synth/oscillator"
	"pipelined.dev/synth/portaudio"
)

// sweepInterval is how often the sweep updates frequency.
const sweepInterval = 10 * time.Millisecond

type playCommand struct {
	*settings
	sweep float64
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play the signal with default output device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	cmd.register(fs)
	fs.Float64Var(&cmd.sweep, "sweep", 0, "frequency in Hz to sweep to during playback, 0 disables sweep")
}

func (cmd *playCommand) Run() error {
	l := cmd.log
	m := &metric.Metric{}
	c := cmd.newChain(l, m)
	defer c.release()
	sink := cmd.sink(c, l, m)

	stream, err := portaudio.Open(sink, cmd.SampleRate, cmd.Channels, cmd.BufferSize)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		return errors.Join(err, stream.Close())
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, cmd.duration)
	defer cancelTimeout()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sweep(ctx, c.sine, cmd.Frequency, cmd.sweep, cmd.duration)
	})
	err = g.Wait()
	l.WithField("measure", m.Measure()[sink.ID()]).Debug("playback done")
	return errors.Join(err, stream.Stop(), stream.Close())
}

// sweep linearly changes frequency of the generator until context is done.
// Zero target frequency disables the sweep.
func sweep(ctx context.Context, sine *oscillator.Sine, from, to float64, duration time.Duration) error {
	if to <= 0 || duration <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			progress := min(float64(time.Since(start))/float64(duration), 1)
			sine.SetFrequency(from + (to-from)*progress)
		}
	}
}
