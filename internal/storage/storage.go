package storage

import (
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/alexhholmes/ptsim/internal/base"
)

// Backing provides the raw bytes behind physical memory.
type Backing interface {
	Bytes() []byte
	Close() error
}

// Heap is a Go-allocated backing.
type Heap struct {
	data []byte
}

// NewHeap allocates size bytes on the Go heap
func NewHeap(size int) *Heap {
	return &Heap{data: make([]byte, size)}
}

func (h *Heap) Bytes() []byte { return h.data }

func (h *Heap) Close() error {
	h.data = nil
	return nil
}

// Memory is the simulated physical memory. Every access is bounds-checked
// against base.MemSize; nothing outside this package indexes the buffer.
type Memory struct {
	backing Backing
	data    []byte

	// Stats counters
	reads  atomic.Uint64
	writes atomic.Uint64
}

// New wraps a backing of exactly base.MemSize bytes.
func New(backing Backing) (*Memory, error) {
	data := backing.Bytes()
	if len(data) != base.MemSize {
		return nil, fmt.Errorf("backing is %d bytes, expected %d", len(data), base.MemSize)
	}
	return &Memory{backing: backing, data: data}, nil
}

// Load reads the byte at addr.
func (m *Memory) Load(addr base.PhysAddr) (byte, error) {
	if m.data == nil {
		return 0, base.ErrClosed
	}
	if int(addr) >= len(m.data) {
		return 0, fmt.Errorf("load %#04x: %w", uint16(addr), base.ErrOutOfBounds)
	}
	m.reads.Add(1)
	return m.data[addr], nil
}

// Store writes v at addr.
func (m *Memory) Store(addr base.PhysAddr, v byte) error {
	if m.data == nil {
		return base.ErrClosed
	}
	if int(addr) >= len(m.data) {
		return fmt.Errorf("store %#04x: %w", uint16(addr), base.ErrOutOfBounds)
	}
	m.writes.Add(1)
	m.data[addr] = v
	return nil
}

// Zero clears all of physical memory.
func (m *Memory) Zero() error {
	if m.data == nil {
		return base.ErrClosed
	}
	clear(m.data)
	return nil
}

// ZeroPage clears a single page.
func (m *Memory) ZeroPage(page base.PageNum) error {
	start, end, err := m.pageRange(page)
	if err != nil {
		return err
	}
	m.writes.Add(base.PageSize)
	clear(m.data[start:end])
	return nil
}

// Checksum hashes the whole of physical memory.
func (m *Memory) Checksum() uint64 {
	return xxhash.Sum64(m.data)
}

// PageChecksum hashes a single page.
func (m *Memory) PageChecksum(page base.PageNum) (uint64, error) {
	start, end, err := m.pageRange(page)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(m.data[start:end]), nil
}

func (m *Memory) pageRange(page base.PageNum) (int, int, error) {
	if m.data == nil {
		return 0, 0, base.ErrClosed
	}
	if int(page) >= base.PageCount {
		return 0, 0, fmt.Errorf("page %d: %w", page, base.ErrOutOfBounds)
	}
	start := int(page) << base.PageShift
	return start, start + base.PageSize, nil
}

// Close releases the backing. Further accesses return base.ErrClosed.
func (m *Memory) Close() error {
	if m.data == nil {
		return nil
	}
	m.data = nil
	return m.backing.Close()
}

// Stats holds access statistics
type Stats struct {
	Reads  uint64
	Writes uint64
}

// Stats returns access statistics
func (m *Memory) Stats() Stats {
	return Stats{
		Reads:  m.reads.Load(),
		Writes: m.writes.Load(),
	}
}
