package native

import (
	"fmt"
	"sync/atomic"

	"pipelined.dev/synth/log"
)

// Stats is a snapshot of native allocation counters.
type Stats struct {
	Regions int64 // live regions
	Bytes   int64 // live bytes
	Allocs  int64 // regions allocated since start
	Frees   int64 // regions released since start
	Leaked  int64 // regions released by finalizer
}

var stats counters

type counters struct {
	regions atomic.Int64
	bytes   atomic.Int64
	allocs  atomic.Int64
	frees   atomic.Int64
	leaked  atomic.Int64
}

func (c *counters) allocated(n int) {
	c.regions.Add(1)
	c.bytes.Add(int64(n))
	c.allocs.Add(1)
}

func (c *counters) released(n int) {
	c.regions.Add(-1)
	c.bytes.Add(-int64(n))
	c.frees.Add(1)
}

// ReadStats returns current allocation counters.
func ReadStats() Stats {
	return Stats{
		Regions: stats.regions.Load(),
		Bytes:   stats.bytes.Load(),
		Allocs:  stats.allocs.Load(),
		Frees:   stats.frees.Load(),
		Leaked:  stats.leaked.Load(),
	}
}

// ReportLeaks logs regions that are still allocated and returns their
// number. It's meant to be deferred at the end of main.
func ReportLeaks(l log.Logger) int64 {
	if l == nil {
		l = getLogger()
	}
	s := ReadStats()
	if s.Regions > 0 {
		l.Warn(fmt.Sprintf("native: %d regions (%d bytes) were never released", s.Regions, s.Bytes))
	}
	if s.Leaked > 0 {
		l.Warn(fmt.Sprintf("native: %d regions were released by finalizer", s.Leaked))
	}
	return s.Regions
}
