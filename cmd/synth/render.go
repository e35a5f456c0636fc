package main

import (
	"errors"
	"flag"
	"fmt"

	"pipelined.dev/synth/metric"
	"pipelined.dev/synth/signal"
	"pipelined.dev/synth/wav"
)

type renderCommand struct {
	*settings
	path     string
	bitDepth int
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render the signal into wav file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	cmd.register(fs)
	fs.StringVar(&cmd.path, "out", "", "output wav file (required)")
	fs.IntVar(&cmd.bitDepth, "bits", 16, "bit depth of output file: 16, 24 or 32")
}

func (cmd *renderCommand) Run() error {
	if cmd.path == "" {
		return errors.New("missing -out required flag")
	}
	l := cmd.log
	m := &metric.Metric{}
	c := cmd.newChain(l, m)
	defer c.release()
	sink := cmd.sink(c, l, m)

	err := wav.RenderFile(cmd.path, sink, wav.Format{
		SampleRate: cmd.SampleRate,
		Channels:   cmd.Channels,
		BitDepth:   signal.BitDepth(cmd.bitDepth),
		BufferSize: cmd.BufferSize,
	}, cmd.frames())
	if err != nil {
		return err
	}
	l.WithField("path", cmd.path).Info(fmt.Sprintf("rendered %v", cmd.duration))
	return nil
}
