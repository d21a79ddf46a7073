package store

import "testing"

func grid(s *Store, r int) {
	for p := -r; p <= r; p++ {
		for q := -r; q <= r; q++ {
			s.Create(p, q)
		}
	}
}

func clean(s *Store) {
	for _, c := range s.Chunks {
		c.Dirty = false
	}
}

func dirtyCount(s *Store) int {
	n := 0
	for _, c := range s.Chunks {
		if c.Dirty {
			n++
		}
	}
	return n
}

func TestStore_FindChunkAndDistance(t *testing.T) {
	s := NewStore(0, true)
	grid(s, 2)
	c := s.FindChunk(-2, 1)
	if c == nil || c.P != -2 || c.Q != 1 {
		t.Fatalf("find failed: %+v", c)
	}
	if s.FindChunk(3, 0) != nil {
		t.Fatalf("expected nil for unloaded chunk")
	}
	if d := Distance(c, 1, -1); d != 3 {
		t.Fatalf("distance=%d want 3", d)
	}
}

func TestStore_DirtyWithoutLightsMarksOnlySelf(t *testing.T) {
	s := NewStore(0, true)
	grid(s, 1)
	clean(s)
	s.Dirty(s.FindChunk(0, 0))
	if n := dirtyCount(s); n != 1 {
		t.Fatalf("dirty=%d want 1", n)
	}
}

func TestStore_DirtyWithLitNeighborMarksNeighborhood(t *testing.T) {
	s := NewStore(0, true)
	grid(s, 2)
	clean(s)
	lit := s.FindChunk(1, 0)
	lit.Lights.Set(40, 20, 5, 15)
	s.Dirty(s.FindChunk(0, 0))
	if n := dirtyCount(s); n != 9 {
		t.Fatalf("dirty=%d want 9", n)
	}
	if s.FindChunk(2, 0).Dirty {
		t.Fatalf("chunk outside the 3x3 must stay clean")
	}
}

func TestStore_DirtyIgnoresLightsWhenDisabled(t *testing.T) {
	s := NewStore(0, false)
	grid(s, 1)
	clean(s)
	s.FindChunk(0, 0).Lights.Set(5, 5, 5, 15)
	s.Dirty(s.FindChunk(0, 0))
	if n := dirtyCount(s); n != 1 {
		t.Fatalf("dirty=%d want 1", n)
	}
}

func TestStore_CreateRespectsCap(t *testing.T) {
	s := NewStore(2, false)
	if s.Create(0, 0) == nil || s.Create(0, 1) == nil {
		t.Fatalf("expected creates under cap")
	}
	if s.Create(0, 2) != nil || s.Len() != 2 {
		t.Fatalf("expected create over cap to no-op")
	}
}

func TestStore_DeleteFar(t *testing.T) {
	s := NewStore(0, false)
	grid(s, 3)
	far := s.FindChunk(3, 3)
	far.Map.Set(100, 10, 100, 1)
	n := s.DeleteFar([]ChunkKey{{P: 0, Q: 0}, {P: -3, Q: -3}}, 2)
	for _, c := range s.Chunks {
		if Distance(c, 0, 0) >= 2 && Distance(c, -3, -3) >= 2 {
			t.Fatalf("chunk %d,%d should be deleted", c.P, c.Q)
		}
	}
	if n+s.Len() != 49 {
		t.Fatalf("deleted=%d remaining=%d", n, s.Len())
	}
	if far.Map.Size() != 0 {
		t.Fatalf("deleted chunk maps must be released")
	}
	if s.FindChunk(0, 0) == nil || s.FindChunk(-2, -3) == nil {
		t.Fatalf("near chunks must survive")
	}
}

func TestStore_GetBlockRoutesByChunked(t *testing.T) {
	s := NewStore(0, false)
	grid(s, 1)
	s.FindChunk(-1, 0).Map.Set(-1, 10, 0, 3)
	s.FindChunk(0, 0).Map.Set(-1, 10, 0, -3)
	if got := s.GetBlock(-1, 10, 0); got != 3 {
		t.Fatalf("GetBlock=%d want 3 from owning chunk", got)
	}
}

func TestSignList(t *testing.T) {
	var l SignList
	l.Add(Sign{X: 1, Y: 2, Z: 3, Face: 0, Text: "a"})
	l.Add(Sign{X: 1, Y: 2, Z: 3, Face: 0, Text: "b"})
	l.Add(Sign{X: 1, Y: 2, Z: 3, Face: 2, Text: "c"})
	if l.Len() != 2 {
		t.Fatalf("len=%d want 2", l.Len())
	}
	if !l.Remove(1, 2, 3, 2) || l.Remove(1, 2, 3, 2) {
		t.Fatalf("remove semantics wrong")
	}
	l.Add(Sign{X: 1, Y: 2, Z: 3, Face: 5, Text: "d"})
	if !l.RemoveAll(1, 2, 3) || l.Len() != 0 {
		t.Fatalf("remove all left %d", l.Len())
	}
}
