package voxel

import "testing"

func collect(m *Map) map[[3]int]int {
	out := map[[3]int]int{}
	m.ForEach(func(x, y, z, w int) bool {
		out[[3]int{x, y, z}] = w
		return true
	})
	return out
}

func TestMap_SetGetRoundTrip(t *testing.T) {
	m := New(-33, 0, 31, 0)
	if !m.Set(-30, 12, 40, 5) {
		t.Fatalf("expected change on first set")
	}
	if got := m.Get(-30, 12, 40); got != 5 {
		t.Fatalf("get=%d want 5", got)
	}
	if got := m.Get(-30, 13, 40); got != 0 {
		t.Fatalf("absent get=%d want 0", got)
	}
	if !m.Set(-30, 12, 40, -5) {
		t.Fatalf("expected change on overwrite")
	}
	if got := m.Get(-30, 12, 40); got != -5 {
		t.Fatalf("negative get=%d want -5", got)
	}
}

func TestMap_SetSameValueReportsNoChange(t *testing.T) {
	m := New(0, 0, 0, 0)
	m.Set(1, 2, 3, 7)
	if m.Set(1, 2, 3, 7) {
		t.Fatalf("expected no change")
	}
	if m.Size() != 1 {
		t.Fatalf("size=%d want 1", m.Size())
	}
}

func TestMap_ZeroSemantics(t *testing.T) {
	m := New(0, 0, 0, 0)
	if m.Set(4, 4, 4, 0) {
		t.Fatalf("writing 0 to an absent key must not report a change")
	}
	if m.Size() != 0 || len(collect(m)) != 0 {
		t.Fatalf("absent zero must not be stored")
	}

	m.Set(1, 1, 1, 3)
	if !m.Set(1, 1, 1, 0) {
		t.Fatalf("clearing a stored value must report a change")
	}
	if got := m.Get(1, 1, 1); got != 0 {
		t.Fatalf("get=%d want 0", got)
	}
	all := collect(m)
	w, ok := all[[3]int{1, 1, 1}]
	if !ok || w != 0 {
		t.Fatalf("explicit zero should stay visible to ForEach, got %v", all)
	}
	if m.Size() != 1 {
		t.Fatalf("size=%d want 1", m.Size())
	}
}

func TestMap_GrowPreservesEntries(t *testing.T) {
	m := New(-1, 0, -1, 16)
	want := map[[3]int]int{}
	for x := -1; x < 33; x++ {
		for z := -1; z < 33; z += 3 {
			y := (x*7 + z) & 63
			w := (x+z)%60 + 1
			if w <= 0 {
				w = 1
			}
			m.Set(x, y, z, w)
			want[[3]int{x, y, z}] = w
		}
	}
	if m.Capacity() <= 16 {
		t.Fatalf("expected growth, capacity=%d", m.Capacity())
	}
	if m.Size() != len(want) {
		t.Fatalf("size=%d want %d", m.Size(), len(want))
	}
	if m.Size()*2 > m.Capacity() {
		t.Fatalf("load factor exceeded: size=%d cap=%d", m.Size(), m.Capacity())
	}
	got := collect(m)
	for k, w := range want {
		if got[k] != w {
			t.Fatalf("key %v = %d want %d", k, got[k], w)
		}
		if m.Get(k[0], k[1], k[2]) != w {
			t.Fatalf("Get %v mismatch", k)
		}
	}
}

func TestMap_CloneIsIndependent(t *testing.T) {
	m := New(0, 0, 0, 0)
	m.Set(1, 2, 3, 4)
	m.Set(2, 2, 2, 0)
	c := m.Clone()
	m.Set(1, 2, 3, 9)
	m.Set(5, 5, 5, 1)
	if c.Get(1, 2, 3) != 4 || c.Get(5, 5, 5) != 0 {
		t.Fatalf("clone aliased its source")
	}
	if c.Capacity() < m.Capacity()/2 || c.Size() != 1 {
		t.Fatalf("clone size=%d cap=%d", c.Size(), c.Capacity())
	}
}

func TestMap_OutOfWindow(t *testing.T) {
	m := New(0, 0, 0, 0)
	if m.Set(-1, 0, 0, 1) || m.Set(0, 256, 0, 1) {
		t.Fatalf("out-of-window writes must be rejected")
	}
	m.Set(0, 44, 0, 2)
	if m.Get(0, 300, 0) != 0 {
		t.Fatalf("out-of-window read must not alias")
	}
}

func TestMap_ForEachStopsEarly(t *testing.T) {
	m := New(0, 0, 0, 0)
	for i := 0; i < 5; i++ {
		m.Set(i, i, i, 1)
	}
	n := 0
	m.ForEach(func(x, y, z, w int) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Fatalf("visited %d want 2", n)
	}
}

func TestMap_NilAndFreed(t *testing.T) {
	var m *Map
	if m.Get(0, 0, 0) != 0 || m.Set(0, 0, 0, 1) || m.Size() != 0 {
		t.Fatalf("nil map must read empty")
	}
	n := New(0, 0, 0, 0)
	n.Set(1, 1, 1, 1)
	n.Free()
	if n.Get(1, 1, 1) != 0 || n.Set(1, 1, 1, 2) {
		t.Fatalf("freed map must read empty")
	}
}

func TestMap_RejectsOutOfRangeValues(t *testing.T) {
	m := New(0, 0, 0, 0)
	if m.Set(1, 1, 1, 200) || m.Set(1, 1, 1, -128) {
		t.Fatalf("out of range value reported a change")
	}
	if m.Get(1, 1, 1) != 0 || m.Size() != 0 {
		t.Fatalf("out of range value stored")
	}
	m.Set(1, 1, 1, 5)
	if m.Set(1, 1, 1, 200) || m.Get(1, 1, 1) != 5 {
		t.Fatalf("out of range value overwrote 5")
	}
	if !m.Set(2, 2, 2, MaxValue) || m.Get(2, 2, 2) != MaxValue {
		t.Fatalf("MaxValue not stored")
	}
	if !m.Set(3, 3, 3, MinValue) || m.Get(3, 3, 3) != MinValue {
		t.Fatalf("MinValue not stored")
	}
}

func TestMap_FreeNil(t *testing.T) {
	var m *Map
	m.Free()
	m.Reset()
	if m.Capacity() != 0 {
		t.Fatalf("nil capacity=%d", m.Capacity())
	}
}
