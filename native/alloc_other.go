//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package native

import "unsafe"

// pageAllocator falls back to Go heap on platforms without a supported
// virtual memory API. Regions stay pinned by the owner until released.
type pageAllocator struct{}

func (pageAllocator) Alloc(size int) ([]byte, error) {
	// uint64 backing keeps 8 byte alignment.
	words := make([]uint64, (size+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size), nil
}

func (pageAllocator) Free([]byte) error {
	return nil
}
