package base

const (
	MemSize   = 16384
	PageSize  = 256
	PageCount = 64
	PageShift = 8

	OffsetMask = PageSize - 1

	// DirectoryOffset is where the process directory starts. The allocation
	// bitmap occupies [0, DirectoryOffset).
	DirectoryOffset = PageCount

	// ReservedPage hosts the bitmap and directory and is never handed out.
	ReservedPage PageNum = 0

	// MaxProcesses is the number of directory slots.
	MaxProcesses = PageCount

	// TableSlots is the number of virtual pages a table maps. The table page
	// is larger, but only the first PageCount bytes are ever written.
	TableSlots = PageCount
)

func init() {
	if PageCount*PageSize != MemSize || 1<<PageShift != PageSize {
		panic("base: inconsistent memory geometry")
	}
}

// PageNum is a physical page number.
type PageNum uint8

// PID identifies a simulated process.
type PID uint8

// VirtAddr is a process-local address: high byte is the virtual page, low byte
// the offset.
type VirtAddr uint16

// PhysAddr indexes physical memory directly.
type PhysAddr uint16

// Page returns the virtual page of a.
func (a VirtAddr) Page() int {
	return int(a >> PageShift)
}

// Offset returns the offset of a within its page.
func (a VirtAddr) Offset() int {
	return int(a & OffsetMask)
}

// Page returns the physical page holding a.
func (a PhysAddr) Page() PageNum {
	return PageNum(a >> PageShift)
}

// Address composes a physical address from a page and an offset. Returns
// ErrOutOfBounds when the result would fall outside physical memory.
func Address(page PageNum, offset int) (PhysAddr, error) {
	if int(page) >= PageCount || offset < 0 || offset >= PageSize {
		return 0, ErrOutOfBounds
	}
	return PhysAddr(int(page)<<PageShift | offset), nil
}

// Mapping is one non-empty page table entry.
type Mapping struct {
	Virtual  int
	Physical PageNum
}
