package alloc

import (
	"fmt"

	"github.com/alexhholmes/ptsim/internal/base"
	"github.com/alexhholmes/ptsim/internal/storage"
)

const (
	used byte = 1
	free byte = 0
)

// Bitmap tracks physical page ownership in the first base.PageCount bytes of
// memory, one byte per page. The bitmap lives inside page 0, which is
// therefore always marked used.
type Bitmap struct {
	mem *storage.Memory
}

// New creates a Bitmap over mem. It does not touch memory; call Reset to
// establish the initial state.
func New(mem *storage.Memory) *Bitmap {
	return &Bitmap{mem: mem}
}

// Reset marks every page free except the reserved page.
func (b *Bitmap) Reset() error {
	for i := 0; i < base.PageCount; i++ {
		if err := b.mem.Store(base.PhysAddr(i), free); err != nil {
			return err
		}
	}
	return b.mem.Store(base.PhysAddr(base.ReservedPage), used)
}

// Allocate claims the lowest-numbered free page. Returns base.ErrExhausted
// when every page is in use.
func (b *Bitmap) Allocate() (base.PageNum, error) {
	for i := 0; i < base.PageCount; i++ {
		v, err := b.mem.Load(base.PhysAddr(i))
		if err != nil {
			return 0, err
		}
		if v != free {
			continue
		}
		if err := b.mem.Store(base.PhysAddr(i), used); err != nil {
			return 0, err
		}
		return base.PageNum(i), nil
	}
	return 0, base.ErrExhausted
}

// Free releases page n. Freeing a page that is already free is a no-op.
func (b *Bitmap) Free(n base.PageNum) error {
	if n == base.ReservedPage {
		return fmt.Errorf("free page %d: %w", n, base.ErrReservedPage)
	}
	if int(n) >= base.PageCount {
		return fmt.Errorf("free page %d: %w", n, base.ErrOutOfBounds)
	}
	return b.mem.Store(base.PhysAddr(n), free)
}

// Allocated reports whether page n is marked in use. Pages outside physical
// memory report false.
func (b *Bitmap) Allocated(n base.PageNum) bool {
	if int(n) >= base.PageCount {
		return false
	}
	v, err := b.mem.Load(base.PhysAddr(n))
	return err == nil && v != free
}

// Snapshot returns the in-use flag of every page, indexed by page number.
func (b *Bitmap) Snapshot() []bool {
	flags := make([]bool, base.PageCount)
	for i := range flags {
		flags[i] = b.Allocated(base.PageNum(i))
	}
	return flags
}

// FreeCount returns number of free pages
func (b *Bitmap) FreeCount() int {
	n := 0
	for i := 0; i < base.PageCount; i++ {
		if !b.Allocated(base.PageNum(i)) {
			n++
		}
	}
	return n
}
