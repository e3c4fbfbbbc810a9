package ptsim

import (
	"fmt"

	"github.com/alexhholmes/ptsim/internal/base"
)

// Access describes a completed load or store.
type Access struct {
	PID      PID
	Virtual  VirtAddr
	Physical PhysAddr
	Value    byte
}

// Translate maps a virtual address of pid to a physical address. It fails
// with ErrUnknownProcess when pid has no page table and ErrUnmappedPage when
// the virtual page has no physical page behind it.
func (m *MMU) Translate(pid PID, va VirtAddr) (PhysAddr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	return m.translate(pid, va)
}

func (m *MMU) translate(pid PID, va VirtAddr) (PhysAddr, error) {
	vpage := va.Page()
	if page, ok := m.tlb.Lookup(pid, vpage); ok {
		return base.Address(page, va.Offset())
	}

	table, err := m.tablePage(pid)
	if err != nil {
		return 0, err
	}
	page, err := m.tables.Entry(table, vpage)
	if err != nil {
		return 0, err
	}
	if page == 0 {
		return 0, fmt.Errorf("process %d: virtual page %d: %w", pid, vpage, ErrUnmappedPage)
	}

	addr, err := base.Address(page, va.Offset())
	if err != nil {
		return 0, fmt.Errorf("process %d: virtual page %d maps to page %d: %w", pid, vpage, page, err)
	}
	m.tlb.Insert(pid, vpage, page)
	return addr, nil
}

// LoadByte reads the byte at a virtual address of pid.
func (m *MMU) LoadByte(pid PID, va VirtAddr) (Access, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Access{}, ErrClosed
	}
	pa, err := m.translate(pid, va)
	if err != nil {
		return Access{}, err
	}
	v, err := m.mem.Load(pa)
	if err != nil {
		return Access{}, err
	}
	return Access{PID: pid, Virtual: va, Physical: pa, Value: v}, nil
}

// StoreByte writes v at a virtual address of pid.
func (m *MMU) StoreByte(pid PID, va VirtAddr, v byte) (Access, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Access{}, ErrClosed
	}
	pa, err := m.translate(pid, va)
	if err != nil {
		return Access{}, err
	}
	if err := m.mem.Store(pa, v); err != nil {
		return Access{}, err
	}
	return Access{PID: pid, Virtual: va, Physical: pa, Value: v}, nil
}
