package store

import (
	"sort"

	"voxelclient.ai/internal/sim/world/logic/mathx"
)

// FindChunk returns the loaded chunk at (p, q), or nil.
func (s *Store) FindChunk(p, q int) *Chunk {
	for _, c := range s.Chunks {
		if c.P == p && c.Q == q {
			return c
		}
	}
	return nil
}

func (s *Store) Len() int { return len(s.Chunks) }

func (s *Store) Full() bool {
	return s.MaxChunks > 0 && len(s.Chunks) >= s.MaxChunks
}

// Create registers an empty, dirty chunk at (p, q). It returns nil when the
// chunk cap is reached.
func (s *Store) Create(p, q int) *Chunk {
	if s.Full() {
		return nil
	}
	c := newChunk(p, q)
	s.Chunks = append(s.Chunks, c)
	s.Dirty(c)
	return c
}

// Distance is the Chebyshev distance between c and (p, q) in chunk space.
func Distance(c *Chunk, p, q int) int {
	return mathx.MaxInt(mathx.AbsInt(c.P-p), mathx.AbsInt(c.Q-q))
}

// Neighborhood returns the 3x3 block of loaded chunks centered on c, indexed
// [dp+1][dq+1]. Missing neighbors are nil.
func (s *Store) Neighborhood(c *Chunk) [3][3]*Chunk {
	var out [3][3]*Chunk
	for dp := -1; dp <= 1; dp++ {
		for dq := -1; dq <= 1; dq++ {
			if dp == 0 && dq == 0 {
				out[1][1] = c
				continue
			}
			out[dp+1][dq+1] = s.FindChunk(c.P+dp, c.Q+dq)
		}
	}
	return out
}

// HasLights reports whether c or any neighbor stores a light value.
func (s *Store) HasLights(c *Chunk) bool {
	if !s.ShowLights {
		return false
	}
	for _, row := range s.Neighborhood(c) {
		for _, other := range row {
			if other != nil && other.Lights.Size() > 0 {
				return true
			}
		}
	}
	return false
}

// Dirty marks c stale. When lights are present nearby the whole 3x3
// neighborhood is marked, since a light can shade adjacent chunks.
func (s *Store) Dirty(c *Chunk) {
	c.Dirty = true
	if !s.HasLights(c) {
		return
	}
	for _, row := range s.Neighborhood(c) {
		for _, other := range row {
			if other != nil {
				other.Dirty = true
			}
		}
	}
}

// DeleteFar frees every chunk whose distance from all centers is at least
// radius, compacting the list by swapping with the last element.
func (s *Store) DeleteFar(centers []ChunkKey, radius int) int {
	deleted := 0
	for i := 0; i < len(s.Chunks); {
		c := s.Chunks[i]
		keep := false
		for _, k := range centers {
			if Distance(c, k.P, k.Q) < radius {
				keep = true
				break
			}
		}
		if keep {
			i++
			continue
		}
		c.Free()
		last := len(s.Chunks) - 1
		s.Chunks[i] = s.Chunks[last]
		s.Chunks[last] = nil
		s.Chunks = s.Chunks[:last]
		deleted++
	}
	return deleted
}

func (s *Store) DeleteAll() {
	for _, c := range s.Chunks {
		c.Free()
	}
	s.Chunks = s.Chunks[:0]
}

// GetBlock reads the block at world position (x, y, z) from its owning chunk.
func (s *Store) GetBlock(x, y, z int) int {
	c := s.FindChunk(mathx.Chunked(float64(x)), mathx.Chunked(float64(z)))
	if c == nil {
		return 0
	}
	return c.Map.Get(x, y, z)
}

func (s *Store) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.Chunks))
	for _, c := range s.Chunks {
		keys = append(keys, c.Key())
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].P != keys[j].P {
			return keys[i].P < keys[j].P
		}
		return keys[i].Q < keys[j].Q
	})
	return keys
}
