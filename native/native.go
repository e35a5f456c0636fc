/*
Package native manages sample memory that lives outside of the Go heap.

Regions are mapped with the platform virtual memory API and are never moved
or scanned by the garbage collector. Every region has exactly one owner, an
Owned value, and only the owner can give the memory back:

	buf, err := native.New[float32](512 * 2)
	if err != nil {
		return err
	}
	defer buf.Release()

Release is idempotent on the owner. Move transfers the region to a new
owner and leaves the old one empty, Clone makes an explicit deep copy.
There is no other way to duplicate a region.

Owned values that become unreachable while still holding memory are released
by a finalizer. In debug mode (SYNTH_DEBUG=true) every such region is logged
as a leak. ReadStats and ReportLeaks expose allocation counters, so tests and
programs can verify that all regions were returned.
*/
package native

import (
	"errors"
	"sync"
	"sync/atomic"

	"pipelined.dev/synth/log"
)

var (
	// ErrAllocation is returned when a region cannot be mapped.
	ErrAllocation = errors.New("native allocation failed")
	// ErrUseAfterFree is returned when released memory is accessed.
	ErrUseAfterFree = errors.New("use after free")
)

// Scalar is a sample type that can be stored in native memory.
type Scalar interface {
	~float32 | ~float64 | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8
}

// Allocator maps and unmaps regions of raw memory. Returned regions must
// be aligned to at least 8 bytes and must not be managed by Go runtime.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte) error
}

// DefaultAllocator maps anonymous pages with the platform virtual memory
// API.
var DefaultAllocator Allocator = pageAllocator{}

var (
	debug atomic.Bool

	loggerMu sync.RWMutex
	logger   log.Logger = log.Silent
)

func init() {
	debug.Store(log.IsDebug())
}

// SetDebug enables leak diagnostics.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// IsDebug returns true if leak diagnostics are enabled.
func IsDebug() bool {
	return debug.Load()
}

// SetLogger sets logger used for leak diagnostics.
func SetLogger(l log.Logger) {
	if l == nil {
		l = log.Silent
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

func getLogger() log.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
