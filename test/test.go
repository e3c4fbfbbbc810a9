// Package test provides integration tests for ptsim.
package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/ptsim"
)

// setup opens a fresh MMU for testing.
func setup(t *testing.T, options ...ptsim.Option) *ptsim.MMU {
	m, err := ptsim.Open(options...)
	require.NoError(t, err, "Failed to open MMU")

	t.Cleanup(func() {
		_ = m.Close()
	})

	return m
}

// owned returns every physical page pid holds: its table and its data pages.
func owned(t *testing.T, m *ptsim.MMU, pid ptsim.PID) []ptsim.PageNum {
	table, err := m.ReadPhysical(ptsim.PhysAddr(ptsim.PageCount + int(pid)))
	require.NoError(t, err)
	require.NotZero(t, table, "process %d has no table", pid)

	entries, err := m.TableEntries(pid)
	require.NoError(t, err)

	pages := []ptsim.PageNum{ptsim.PageNum(table)}
	for _, e := range entries {
		pages = append(pages, e.Physical)
	}
	return pages
}
