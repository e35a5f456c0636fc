package main

import (
	"flag"
	"fmt"
	"io"
	"sort"

	"pipelined.dev/synth/metric"
	"pipelined.dev/synth/native"
)

type statsCommand struct {
	*settings
}

func (cmd *statsCommand) Name() string {
	return "stats"
}

func (cmd *statsCommand) Help() string {
	return "Render the signal into memory and print fill metrics"
}

func (cmd *statsCommand) Register(fs *flag.FlagSet) {
	cmd.register(fs)
}

func (cmd *statsCommand) Run() error {
	l := cmd.log
	m := &metric.Metric{}
	c := cmd.newChain(l, m)
	sink := cmd.sink(c, l, m)

	host := make([]float32, cmd.BufferSize*cmd.Channels)
	for rendered := 0; rendered < cmd.frames(); rendered += cmd.BufferSize {
		if err := sink.Fill(host, cmd.Channels); err != nil {
			c.release()
			return err
		}
	}
	allocated := native.ReadStats()
	c.release()

	measure := m.Measure()
	ids := make([]string, 0, len(measure))
	for id := range measure {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(cmd.out, "%s:\n", id)
		printValues(cmd.out, measure[id])
	}
	released := native.ReadStats()
	fmt.Fprintf(cmd.out, "native: allocated %d regions (%d bytes) before release, %d regions after\n",
		allocated.Regions, allocated.Bytes, released.Regions)
	fmt.Fprintf(cmd.out, "native: %d allocs, %d frees, %d leaked\n",
		released.Allocs, released.Frees, released.Leaked)
	return nil
}

func printValues(w io.Writer, values map[string]interface{}) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "\t%s: %v\n", name, values[name])
	}
}
