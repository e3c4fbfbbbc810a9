// mmap_unix.go
//go:build linux || darwin

package storage

import (
	"golang.org/x/sys/unix"
)

// MMap backs physical memory with an anonymous private mapping
type MMap struct {
	data []byte
}

// NewMMap maps size bytes of zeroed anonymous memory
func NewMMap(size int) (*MMap, error) {
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &MMap{data: data}, nil
}

func (m *MMap) Bytes() []byte { return m.data }

// Close unmaps the region
func (m *MMap) Close() error {
	if m.data == nil {
		return nil
	}
	if err := unix.Munmap(m.data); err != nil {
		return err
	}
	m.data = nil
	return nil
}
