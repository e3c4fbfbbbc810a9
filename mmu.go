package ptsim

import (
	"fmt"
	"sync"

	"github.com/alexhholmes/ptsim/internal/alloc"
	"github.com/alexhholmes/ptsim/internal/base"
	"github.com/alexhholmes/ptsim/internal/pagetable"
	"github.com/alexhholmes/ptsim/internal/storage"
	"github.com/alexhholmes/ptsim/internal/tlb"
)

type (
	PageNum  = base.PageNum
	PID      = base.PID
	VirtAddr = base.VirtAddr
	PhysAddr = base.PhysAddr
	Mapping  = base.Mapping
)

const (
	MemSize   = base.MemSize
	PageSize  = base.PageSize
	PageCount = base.PageCount

	// MaxProcesses is one past the highest usable process number.
	MaxProcesses = base.MaxProcesses
)

// MMU is a simulated memory management unit together with the physical
// memory it manages. All bookkeeping (allocation bitmap, process directory,
// page tables) is stored inside that memory.
//
// The simulation is single-threaded by nature, but every method takes the
// same lock so an MMU may be shared between goroutines.
type MMU struct {
	mu     sync.Mutex
	mem    *storage.Memory
	pages  *alloc.Bitmap
	tables *pagetable.Manager
	tlb    *tlb.TLB
	log    Logger

	rollback bool
	closed   bool
}

// Open allocates physical memory and initializes it.
func Open(options ...Option) (*MMU, error) {
	opts := DefaultOptions()
	for _, opt := range options {
		opt(&opts)
	}

	var backing storage.Backing
	switch opts.backing {
	case BackingMMap:
		mm, err := storage.NewMMap(base.MemSize)
		if err != nil {
			return nil, fmt.Errorf("map physical memory: %w", err)
		}
		backing = mm
	default:
		backing = storage.NewHeap(base.MemSize)
	}

	mem, err := storage.New(backing)
	if err != nil {
		_ = backing.Close()
		return nil, err
	}

	cache, err := tlb.New(opts.tlbSize)
	if err != nil {
		_ = mem.Close()
		return nil, err
	}

	m := &MMU{
		mem:      mem,
		pages:    alloc.New(mem),
		tables:   pagetable.New(mem),
		tlb:      cache,
		log:      opts.logger,
		rollback: opts.rollback,
	}
	if err := m.Initialize(); err != nil {
		_ = mem.Close()
		return nil, err
	}
	return m, nil
}

// Initialize zeroes all of memory and reserves page 0. Every process is
// forgotten.
func (m *MMU) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if err := m.mem.Zero(); err != nil {
		return err
	}
	m.tlb.Purge()
	return m.pages.Reset()
}

// Close releases physical memory. Further calls return ErrClosed.
func (m *MMU) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.tlb.Purge()
	return m.mem.Close()
}

// AllocatePage claims the lowest free physical page. Returns ErrExhausted
// when none is left.
func (m *MMU) AllocatePage() (PageNum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	return m.pages.Allocate()
}

// FreePage releases a physical page. Releasing a free page is a no-op; the
// reserved page cannot be released. The caller is responsible for making
// sure no page table still maps it.
func (m *MMU) FreePage(page PageNum) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	return m.pages.Free(page)
}

// ReadPhysical returns the byte at a physical address.
func (m *MMU) ReadPhysical(addr PhysAddr) (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	return m.mem.Load(addr)
}

// WritePhysical stores a byte at a physical address. Writes that land in the
// directory or in a page table drop the affected cached translations.
func (m *MMU) WritePhysical(addr PhysAddr, v byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if err := m.mem.Store(addr, v); err != nil {
		return err
	}

	page := addr.Page()
	offset := int(addr) & base.OffsetMask
	if page == base.ReservedPage {
		if offset >= base.DirectoryOffset && offset < base.DirectoryOffset+base.MaxProcesses {
			m.tlb.Purge()
		}
		return nil
	}
	for _, pid := range m.tables.Owners(page) {
		m.tlb.InvalidateProcess(pid)
	}
	return nil
}

// BitmapSnapshot returns the in-use flag of every physical page, indexed by
// page number. A closed MMU returns nil.
func (m *MMU) BitmapSnapshot() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.pages.Snapshot()
}

// TableEntries returns the mapped virtual pages of a process in ascending
// order.
func (m *MMU) TableEntries(pid PID) ([]Mapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	table, err := m.tablePage(pid)
	if err != nil {
		return nil, err
	}
	return m.tables.Entries(table)
}

// Processes returns every live process in ascending order.
func (m *MMU) Processes() []PID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	return m.tables.Processes()
}

// Checksum hashes the whole of physical memory. A closed MMU returns 0.
func (m *MMU) Checksum() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0
	}
	return m.mem.Checksum()
}

// PageChecksum hashes a single physical page.
func (m *MMU) PageChecksum(page PageNum) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	return m.mem.PageChecksum(page)
}

// Stats holds memory and translation statistics
type Stats struct {
	Reads        uint64 // Physical memory byte reads, bookkeeping included
	Writes       uint64 // Physical memory byte writes, bookkeeping included
	TLBHits      uint64
	TLBMisses    uint64
	TLBEvictions uint64
	FreePages    int
	Processes    int
}

// Stats returns memory and translation statistics
func (m *MMU) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms := m.mem.Stats()
	tm := m.tlb.Metrics()
	stats := Stats{
		Reads:        ms.Reads,
		Writes:       ms.Writes,
		TLBHits:      tm.Hits,
		TLBMisses:    tm.Misses,
		TLBEvictions: tm.Evictions,
	}
	if !m.closed {
		stats.FreePages = m.pages.FreeCount()
		stats.Processes = len(m.tables.Processes())
	}
	return stats
}

// tablePage returns pid's table page, or ErrUnknownProcess if it has none.
func (m *MMU) tablePage(pid PID) (PageNum, error) {
	table, err := m.tables.TablePage(pid)
	if err != nil {
		return 0, err
	}
	if table == base.ReservedPage {
		return 0, fmt.Errorf("process %d: %w", pid, ErrUnknownProcess)
	}
	return table, nil
}
