package tlb

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"

	"github.com/alexhholmes/ptsim/internal/base"
)

// TLB caches successful (process, virtual page) -> physical page
// translations. It holds no authority: the page tables in memory are always
// the source of truth, and the owner must invalidate entries whenever a
// table changes.
type TLB struct {
	lru *freelru.LRU[key, base.PageNum]
}

// key packs pid into the high byte and the virtual page into the low byte
type key uint16

func makeKey(pid base.PID, vpage int) key {
	return key(uint16(pid)<<8 | uint16(vpage&0xff))
}

func hashKey(k key) uint32 {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(k))
	return uint32(xxhash.Sum64(buf[:]))
}

// Metrics holds cache statistics
type Metrics struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// New creates a TLB holding up to size entries. A size of 0 returns a nil
// TLB; every method on a nil TLB is a no-op that always misses.
func New(size int) (*TLB, error) {
	if size <= 0 {
		return nil, nil
	}
	lru, err := freelru.New[key, base.PageNum](uint32(size), hashKey)
	if err != nil {
		return nil, err
	}
	return &TLB{lru: lru}, nil
}

// Lookup returns the cached physical page for (pid, vpage).
func (t *TLB) Lookup(pid base.PID, vpage int) (base.PageNum, bool) {
	if t == nil {
		return 0, false
	}
	return t.lru.Get(makeKey(pid, vpage))
}

// Insert caches a translation.
func (t *TLB) Insert(pid base.PID, vpage int, page base.PageNum) {
	if t == nil {
		return
	}
	t.lru.Add(makeKey(pid, vpage), page)
}

// InvalidateProcess drops every cached translation for pid.
func (t *TLB) InvalidateProcess(pid base.PID) {
	if t == nil {
		return
	}
	for v := 0; v < base.PageSize; v++ {
		t.lru.Remove(makeKey(pid, v))
	}
}

// Purge drops every cached translation.
func (t *TLB) Purge() {
	if t == nil {
		return
	}
	t.lru.Purge()
}

// Len returns the number of cached translations
func (t *TLB) Len() int {
	if t == nil {
		return 0
	}
	return t.lru.Len()
}

// Metrics returns cache statistics
func (t *TLB) Metrics() Metrics {
	if t == nil {
		return Metrics{}
	}
	m := t.lru.Metrics()
	return Metrics{
		Hits:      m.Hits,
		Misses:    m.Misses,
		Evictions: m.Evictions,
	}
}
