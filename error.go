package synth

import (
	"pipelined.dev/synth/native"
	"pipelined.dev/synth/signal"
)

var (
	// ErrAllocation is returned when native memory cannot be allocated.
	ErrAllocation = native.ErrAllocation
	// ErrUseAfterFree is returned when released buffer is accessed.
	ErrUseAfterFree = native.ErrUseAfterFree
	// ErrOutOfRange is returned when sample index is out of buffer bounds.
	ErrOutOfRange = signal.ErrOutOfRange
	// ErrInvalidShape is returned for non-positive or non-divisible frame
	// and channel counts.
	ErrInvalidShape = signal.ErrInvalidShape
)
