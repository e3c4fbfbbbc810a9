package tlb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/ptsim/internal/base"
)

func TestTLBLookupInsert(t *testing.T) {
	t.Parallel()

	c, err := New(16)
	require.NoError(t, err)

	_, ok := c.Lookup(1, 0)
	assert.False(t, ok)

	c.Insert(1, 0, 7)
	page, ok := c.Lookup(1, 0)
	require.True(t, ok)
	assert.Equal(t, base.PageNum(7), page)

	// Same virtual page in another process is a distinct entry
	_, ok = c.Lookup(2, 0)
	assert.False(t, ok)

	m := c.Metrics()
	assert.Equal(t, uint64(1), m.Hits)
	assert.Equal(t, uint64(2), m.Misses)
}

func TestTLBInvalidateProcess(t *testing.T) {
	t.Parallel()

	c, err := New(64)
	require.NoError(t, err)

	c.Insert(1, 0, 2)
	c.Insert(1, 1, 3)
	c.Insert(2, 0, 5)
	assert.Equal(t, 3, c.Len())

	c.InvalidateProcess(1)
	_, ok := c.Lookup(1, 0)
	assert.False(t, ok)
	_, ok = c.Lookup(1, 1)
	assert.False(t, ok)

	page, ok := c.Lookup(2, 0)
	require.True(t, ok)
	assert.Equal(t, base.PageNum(5), page)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestTLBCapacity(t *testing.T) {
	t.Parallel()

	c, err := New(4)
	require.NoError(t, err)

	for v := 0; v < 10; v++ {
		c.Insert(0, v, base.PageNum(v+1))
	}
	assert.LessOrEqual(t, c.Len(), 4)
	assert.NotZero(t, c.Metrics().Evictions)

	// Most recent insert survives
	page, ok := c.Lookup(0, 9)
	require.True(t, ok)
	assert.Equal(t, base.PageNum(10), page)
}

func TestTLBDisabled(t *testing.T) {
	t.Parallel()

	c, err := New(0)
	require.NoError(t, err)
	assert.Nil(t, c)

	c.Insert(0, 0, 1)
	_, ok := c.Lookup(0, 0)
	assert.False(t, ok)
	c.InvalidateProcess(0)
	c.Purge()
	assert.Zero(t, c.Len())
	assert.Equal(t, Metrics{}, c.Metrics())
}
