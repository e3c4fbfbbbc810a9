package ptsim

import (
	"errors"
	"fmt"

	"github.com/alexhholmes/ptsim/internal/base"
)

// CreateProcess builds a page table for pid and maps virtual pages
// [0, pageCount) to freshly allocated physical pages.
//
// When memory runs out part way through, the returned error matches both
// ErrOutOfMemory and ErrExhausted. The pages obtained so far stay allocated
// and mapped to pid unless the MMU was opened WithRollback, in which case
// they are released and pid is left without a table.
func (m *MMU) CreateProcess(pid PID, pageCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if pageCount < 0 || pageCount > base.TableSlots {
		return fmt.Errorf("process %d: %d pages: %w", pid, pageCount, ErrInvalidPageCount)
	}

	table, err := m.tables.TablePage(pid)
	if err != nil {
		return err
	}
	if table != base.ReservedPage {
		return fmt.Errorf("process %d: %w", pid, ErrProcessExists)
	}

	table, err = m.pages.Allocate()
	if err != nil {
		return fmt.Errorf("process %d: page table: %w: %w", pid, ErrOutOfMemory, err)
	}
	// A recycled page may still hold the mappings of an earlier table, and
	// that table's owner may still be listed in the directory if the page
	// was freed out from under it.
	for _, owner := range m.tables.Owners(table) {
		m.tlb.InvalidateProcess(owner)
	}
	if err := m.tables.Clear(table); err != nil {
		return err
	}
	if err := m.tables.SetTablePage(pid, table); err != nil {
		return err
	}

	for i := 0; i < pageCount; i++ {
		page, err := m.pages.Allocate()
		if err != nil {
			return m.abortCreate(pid, i, pageCount, err)
		}
		if err := m.tables.SetEntry(table, i, page); err != nil {
			return err
		}
	}

	m.log.Info("process created", "pid", pid, "table", table, "pages", pageCount)
	return nil
}

func (m *MMU) abortCreate(pid PID, got, want int, cause error) error {
	err := fmt.Errorf("process %d: allocated %d of %d pages: %w: %w", pid, got, want, ErrOutOfMemory, cause)

	if !m.rollback {
		m.log.Warn("process left with partial allocation", "pid", pid, "pages", got, "requested", want)
		return err
	}

	if rerr := m.terminate(pid); rerr != nil {
		m.log.Error("rollback failed", "pid", pid, "error", rerr)
		return errors.Join(err, rerr)
	}
	m.log.Info("process creation rolled back", "pid", pid, "pages", got)
	return err
}

// TerminateProcess releases every page mapped by pid, then its page table,
// and removes pid from the directory.
func (m *MMU) TerminateProcess(pid PID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if err := m.terminate(pid); err != nil {
		return err
	}
	m.log.Info("process terminated", "pid", pid)
	return nil
}

func (m *MMU) terminate(pid PID) error {
	table, err := m.tablePage(pid)
	if err != nil {
		return err
	}

	var errs []error
	for v := 0; v < base.TableSlots; v++ {
		page, err := m.tables.Entry(table, v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if page == 0 {
			continue
		}
		if err := m.pages.Free(page); err != nil {
			m.log.Error("free mapped page", "pid", pid, "vpage", v, "page", page, "error", err)
			errs = append(errs, err)
		}
	}

	if err := m.pages.Free(table); err != nil {
		errs = append(errs, err)
	}
	if err := m.tables.SetTablePage(pid, base.ReservedPage); err != nil {
		errs = append(errs, err)
	}
	m.tlb.InvalidateProcess(pid)

	if len(errs) > 0 {
		return fmt.Errorf("process %d: %w", pid, errors.Join(errs...))
	}
	return nil
}
