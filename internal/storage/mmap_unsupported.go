// mmap_unsupported.go
//go:build !linux && !darwin

package storage

// On unsupported platforms, MMap falls back to Heap
type MMap struct {
	*Heap
}

func NewMMap(size int) (*MMap, error) {
	return &MMap{Heap: NewHeap(size)}, nil
}

// All methods automatically delegate to Heap
