package pagetable

import (
	"fmt"

	"github.com/alexhholmes/ptsim/internal/base"
	"github.com/alexhholmes/ptsim/internal/storage"
)

// Manager reads and writes the process directory and page tables. Both live
// in physical memory: the directory in page 0 after the allocation bitmap,
// each table in a page of its own.
//
// DIRECTORY (page 0):
// ┌──────────────────────────┬──────────────────────────┬──────────────┐
// │ bitmap [0, 64)           │ directory [64, 128)      │ unused       │
// │ 1 byte per physical page │ table page per process   │              │
// └──────────────────────────┴──────────────────────────┴──────────────┘
//
// TABLE PAGE:
// ┌──────────────────────────┬─────────────────────────────────────────┐
// │ slots [0, 64)            │ unused, always zero                     │
// │ physical page, 0=unmapped│                                         │
// └──────────────────────────┴─────────────────────────────────────────┘
type Manager struct {
	mem *storage.Memory
}

// New creates a Manager over mem
func New(mem *storage.Memory) *Manager {
	return &Manager{mem: mem}
}

// TablePage returns the page holding pid's table, or base.ReservedPage if
// the process has none.
func (m *Manager) TablePage(pid base.PID) (base.PageNum, error) {
	if int(pid) >= base.MaxProcesses {
		return 0, fmt.Errorf("process %d: %w", pid, base.ErrInvalidProcess)
	}
	v, err := m.mem.Load(base.PhysAddr(base.DirectoryOffset + int(pid)))
	return base.PageNum(v), err
}

// SetTablePage records page as pid's table. Passing base.ReservedPage clears
// the entry.
func (m *Manager) SetTablePage(pid base.PID, page base.PageNum) error {
	if int(pid) >= base.MaxProcesses {
		return fmt.Errorf("process %d: %w", pid, base.ErrInvalidProcess)
	}
	return m.mem.Store(base.PhysAddr(base.DirectoryOffset+int(pid)), byte(page))
}

// Entry returns the physical page mapped at vpage in table. Any vpage inside
// the table page is readable; slots past base.TableSlots are never written
// and read as unmapped.
func (m *Manager) Entry(table base.PageNum, vpage int) (base.PageNum, error) {
	addr, err := base.Address(table, vpage)
	if err != nil {
		return 0, fmt.Errorf("table %d slot %d: %w", table, vpage, err)
	}
	v, err := m.mem.Load(addr)
	return base.PageNum(v), err
}

// SetEntry maps vpage to page in table.
func (m *Manager) SetEntry(table base.PageNum, vpage int, page base.PageNum) error {
	if vpage < 0 || vpage >= base.TableSlots {
		return fmt.Errorf("table %d slot %d: %w", table, vpage, base.ErrOutOfBounds)
	}
	addr, err := base.Address(table, vpage)
	if err != nil {
		return fmt.Errorf("table %d slot %d: %w", table, vpage, err)
	}
	return m.mem.Store(addr, byte(page))
}

// Clear unmaps every slot of table.
func (m *Manager) Clear(table base.PageNum) error {
	return m.mem.ZeroPage(table)
}

// Entries returns the mapped slots of table in ascending virtual page order.
func (m *Manager) Entries(table base.PageNum) ([]base.Mapping, error) {
	var mappings []base.Mapping
	for v := 0; v < base.TableSlots; v++ {
		page, err := m.Entry(table, v)
		if err != nil {
			return nil, err
		}
		if page != 0 {
			mappings = append(mappings, base.Mapping{Virtual: v, Physical: page})
		}
	}
	return mappings, nil
}

// Owner returns the lowest process whose table is stored in page.
func (m *Manager) Owner(page base.PageNum) (base.PID, bool) {
	owners := m.Owners(page)
	if len(owners) == 0 {
		return 0, false
	}
	return owners[0], true
}

// Owners returns every process whose directory entry names page. More than
// one only happens when a live table page was freed and handed out again.
func (m *Manager) Owners(page base.PageNum) []base.PID {
	if page == base.ReservedPage {
		return nil
	}
	var pids []base.PID
	for p := 0; p < base.MaxProcesses; p++ {
		table, err := m.TablePage(base.PID(p))
		if err == nil && table == page {
			pids = append(pids, base.PID(p))
		}
	}
	return pids
}

// Processes returns every process with a table, in ascending order.
func (m *Manager) Processes() []base.PID {
	var pids []base.PID
	for p := 0; p < base.MaxProcesses; p++ {
		table, err := m.TablePage(base.PID(p))
		if err == nil && table != base.ReservedPage {
			pids = append(pids, base.PID(p))
		}
	}
	return pids
}
