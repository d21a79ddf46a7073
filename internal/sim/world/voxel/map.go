// Package voxel implements the sparse per-chunk voxel table.
//
// A Map is an open-addressed hash table with linear probing. Keys are stored
// as byte deltas from the map origin, so a Map covers a 256^3 window starting
// at (DX, DY, DZ); coordinates outside that window read as empty and cannot
// be written.
//
// Zero values: writing 0 to an absent coordinate stores nothing and reports
// no change. Writing 0 to a present coordinate keeps the slot with value 0,
// so Size and ForEach still count it. Get returns 0 in both cases.
package voxel

import "voxelclient.ai/internal/sim/world/logic/mathx"

const minCapacity = 16

// Values are stored in one signed byte.
const (
	MinValue = -127
	MaxValue = 127
)

type entry struct {
	key uint32 // x | y<<8 | z<<16 | occupied<<24
	w   int8
}

const occupied = 1 << 24

func (e entry) used() bool { return e.key&occupied != 0 }

type Map struct {
	DX, DY, DZ int

	mask uint32
	size int
	data []entry
}

// New allocates a map with origin (dx, dy, dz). The capacity hint is rounded
// up to a power of two.
func New(dx, dy, dz, capacity int) *Map {
	m := &Map{DX: dx, DY: dy, DZ: dz}
	m.alloc(capacity)
	return m
}

func (m *Map) alloc(capacity int) {
	n := minCapacity
	for n < capacity {
		n <<= 1
	}
	m.mask = uint32(n - 1)
	m.size = 0
	m.data = make([]entry, n)
}

// Size is the number of occupied slots, including slots holding 0.
func (m *Map) Size() int {
	if m == nil {
		return 0
	}
	return m.size
}

func (m *Map) Capacity() int {
	if m == nil {
		return 0
	}
	return len(m.data)
}

// Free drops the table. A freed map reads as empty and ignores writes.
func (m *Map) Free() {
	if m == nil {
		return
	}
	m.data = nil
	m.size = 0
	m.mask = 0
}

func (m *Map) pack(x, y, z int) (uint32, bool) {
	x -= m.DX
	y -= m.DY
	z -= m.DZ
	if x < 0 || x > 255 || y < 0 || y > 255 || z < 0 || z > 255 {
		return 0, false
	}
	return uint32(x) | uint32(y)<<8 | uint32(z)<<16 | occupied, true
}

func hashKey(key uint32) uint32 {
	x := mathx.HashInt(key & 0xff)
	y := mathx.HashInt((key >> 8) & 0xff)
	z := mathx.HashInt((key >> 16) & 0xff)
	return x ^ y ^ z
}

func (m *Map) find(key uint32) (uint32, bool) {
	i := hashKey(key) & m.mask
	for {
		e := m.data[i]
		if !e.used() {
			return i, false
		}
		if e.key == key {
			return i, true
		}
		i = (i + 1) & m.mask
	}
}

// Get returns the value stored at (x, y, z), or 0 when absent.
func (m *Map) Get(x, y, z int) int {
	if m == nil || len(m.data) == 0 {
		return 0
	}
	key, ok := m.pack(x, y, z)
	if !ok {
		return 0
	}
	i, found := m.find(key)
	if !found {
		return 0
	}
	return int(m.data[i].w)
}

// Set stores w at (x, y, z) and reports whether the stored value changed.
// Values outside [MinValue, MaxValue] are not stored.
func (m *Map) Set(x, y, z, w int) bool {
	if m == nil || len(m.data) == 0 || w < MinValue || w > MaxValue {
		return false
	}
	key, ok := m.pack(x, y, z)
	if !ok {
		return false
	}
	i, found := m.find(key)
	if found {
		if int(m.data[i].w) == w {
			return false
		}
		m.data[i].w = int8(w)
		return true
	}
	if w == 0 {
		return false
	}
	m.data[i] = entry{key: key, w: int8(w)}
	m.size++
	// Grow once more than half the table is occupied.
	if uint32(m.size)*2 > m.mask {
		m.grow()
	}
	return true
}

func (m *Map) grow() {
	old := m.data
	m.alloc(len(old) * 2)
	for _, e := range old {
		if e.used() {
			m.insert(e)
		}
	}
}

func (m *Map) insert(e entry) {
	i, _ := m.find(e.key)
	m.data[i] = e
	m.size++
}

// ForEach visits every occupied slot. Returning false from fn stops the walk.
func (m *Map) ForEach(fn func(x, y, z, w int) bool) {
	if m == nil {
		return
	}
	for _, e := range m.data {
		if !e.used() {
			continue
		}
		x := int(e.key&0xff) + m.DX
		y := int((e.key>>8)&0xff) + m.DY
		z := int((e.key>>16)&0xff) + m.DZ
		if !fn(x, y, z, int(e.w)) {
			return
		}
	}
}

// Clone returns a deep copy with the same origin and capacity.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	c := &Map{DX: m.DX, DY: m.DY, DZ: m.DZ, mask: m.mask, size: m.size}
	c.data = make([]entry, len(m.data))
	copy(c.data, m.data)
	return c
}

// Reset clears all entries while keeping origin and capacity.
func (m *Map) Reset() {
	if m == nil {
		return
	}
	for i := range m.data {
		m.data[i] = entry{}
	}
	m.size = 0
}
