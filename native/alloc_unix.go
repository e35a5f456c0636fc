//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package native

import "golang.org/x/sys/unix"

// pageAllocator maps anonymous private pages. Mapped memory is page aligned
// and zeroed by the kernel.
type pageAllocator struct{}

func (pageAllocator) Alloc(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func (pageAllocator) Free(b []byte) error {
	return unix.Munmap(b)
}
