package native

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// pageAllocator commits pages with VirtualAlloc. Committed memory is page
// aligned and zeroed by the system.
type pageAllocator struct{}

func (pageAllocator) Alloc(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func (pageAllocator) Free(b []byte) error {
	return windows.VirtualFree(uintptr(unsafe.Pointer(unsafe.SliceData(b))), 0, windows.MEM_RELEASE)
}
