package ptsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateScenario(t *testing.T) {
	t.Parallel()

	m := setup(t)
	require.NoError(t, m.CreateProcess(0, 2))

	tests := []struct {
		name    string
		va      VirtAddr
		want    PhysAddr
		wantErr error
	}{
		{"first byte of page 0", 0x0000, 0x0200, nil},
		{"offset into page 1", 0x0105, 0x0305, nil},
		{"last byte of page 1", 0x01ff, 0x03ff, nil},
		{"page 2 unmapped", 0x0200, 0, ErrUnmappedPage},
		{"beyond table slots", 0xff00, 0, ErrUnmappedPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Translate(0, tt.va)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateUnknownProcess(t *testing.T) {
	t.Parallel()

	m := setup(t)

	_, err := m.Translate(3, 0)
	assert.ErrorIs(t, err, ErrUnknownProcess)

	_, err = m.Translate(MaxProcesses, 0)
	assert.ErrorIs(t, err, ErrInvalidProcess)
}

func TestTranslateCorruptEntry(t *testing.T) {
	t.Parallel()

	m := setup(t)
	require.NoError(t, m.CreateProcess(0, 1)) // table 1

	require.NoError(t, m.WritePhysical(0x0100, 200))
	_, err := m.Translate(0, 0x0000)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 4} {
		m := setup(t, WithTLBSize(size))

		const k = 5
		require.NoError(t, m.CreateProcess(1, k))

		for va := 0; va < k*PageSize; va += 7 {
			v := byte(va * 31)
			st, err := m.StoreByte(1, VirtAddr(va), v)
			require.NoError(t, err)
			ld, err := m.LoadByte(1, VirtAddr(va))
			require.NoError(t, err)
			assert.Equal(t, st.Physical, ld.Physical)
			assert.Equal(t, v, ld.Value, "tlb=%d va=%#04x", size, va)
		}

		_, err := m.LoadByte(1, k*PageSize)
		assert.ErrorIs(t, err, ErrUnmappedPage)
		_, err = m.StoreByte(1, k*PageSize, 1)
		assert.ErrorIs(t, err, ErrUnmappedPage)
	}
}

func TestTLBStats(t *testing.T) {
	t.Parallel()

	m := setup(t, WithTLBSize(8))
	require.NoError(t, m.CreateProcess(0, 1))

	_, err := m.Translate(0, 0x0001)
	require.NoError(t, err)
	_, err = m.Translate(0, 0x0002)
	require.NoError(t, err)

	stats := m.Stats()
	assert.Equal(t, uint64(1), stats.TLBMisses)
	assert.Equal(t, uint64(1), stats.TLBHits)

	// Terminating must drop cached translations
	require.NoError(t, m.TerminateProcess(0))
	_, err = m.Translate(0, 0x0001)
	assert.ErrorIs(t, err, ErrUnknownProcess)
}

func TestTLBDisabled(t *testing.T) {
	t.Parallel()

	m := setup(t, WithTLBSize(0))
	require.NoError(t, m.CreateProcess(0, 1))

	for i := 0; i < 3; i++ {
		pa, err := m.Translate(0, 0x0010)
		require.NoError(t, err)
		assert.Equal(t, PhysAddr(0x0210), pa)
	}

	stats := m.Stats()
	assert.Zero(t, stats.TLBHits)
	assert.Zero(t, stats.TLBMisses)
}

func TestAccessRecord(t *testing.T) {
	t.Parallel()

	m := setup(t)
	require.NoError(t, m.CreateProcess(0, 2))

	acc, err := m.StoreByte(0, 0x0105, 99)
	require.NoError(t, err)
	assert.Equal(t, Access{PID: 0, Virtual: 0x0105, Physical: 0x0305, Value: 99}, acc)

	v, err := m.ReadPhysical(0x0305)
	require.NoError(t, err)
	assert.Equal(t, byte(99), v)
}

// TestTLBFreedTablePage reuses a live table page and checks that cached and
// uncached translations agree at every step.
func TestTLBFreedTablePage(t *testing.T) {
	t.Parallel()

	type result struct {
		addr PhysAddr
		err  error
	}
	trace := func(tlbSize int) []result {
		m := setup(t, WithTLBSize(tlbSize))
		var got []result
		translate := func(pid PID) {
			pa, err := m.Translate(pid, 0x0000)
			got = append(got, result{pa, err})
		}

		require.NoError(t, m.CreateProcess(0, 1)) // table 1, data 2
		translate(0)

		// Page 1 is still process 0's table when it becomes process 1's
		require.NoError(t, m.FreePage(1))
		require.NoError(t, m.CreateProcess(1, 0))
		translate(0)

		// Both directory entries name page 1 now
		require.NoError(t, m.WritePhysical(0x0100, 2))
		translate(0)
		translate(1)
		require.NoError(t, m.WritePhysical(0x0100, 0))
		translate(0)
		translate(1)
		return got
	}

	uncached := trace(0)
	require.Len(t, uncached, 6)
	assert.Equal(t, PhysAddr(0x0200), uncached[0].addr)
	assert.ErrorIs(t, uncached[1].err, ErrUnmappedPage)
	assert.Equal(t, PhysAddr(0x0200), uncached[3].addr)
	assert.ErrorIs(t, uncached[5].err, ErrUnmappedPage)

	cached := trace(16)
	require.Len(t, cached, 6)
	for i := range uncached {
		assert.Equal(t, uncached[i].addr, cached[i].addr, "step %d", i)
		assert.Equal(t, uncached[i].err == nil, cached[i].err == nil, "step %d", i)
		if uncached[i].err != nil {
			assert.ErrorIs(t, cached[i].err, ErrUnmappedPage, "step %d", i)
		}
	}
}
