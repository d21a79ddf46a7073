package world

import (
	"voxelclient.ai/internal/sim/catalogs"
	"voxelclient.ai/internal/sim/world/logic/mathx"
)

// GetBlock returns the block at (x, y, z), or 0 when its chunk is not loaded.
func (w *World) GetBlock(x, y, z int) int {
	return w.chunks.GetBlock(x, y, z)
}

func owns(p, q, x, z int) bool {
	return mathx.Chunked(float64(x)) == p && mathx.Chunked(float64(z)) == q
}

// SetBlock is a local edit: it updates the owning chunk, echoes the negated
// value into the neighbor chunks whose halo contains (x, y, z), and sends
// the edit to the server.
func (w *World) SetBlock(x, y, z, v int) {
	p := mathx.Chunked(float64(x))
	q := mathx.Chunked(float64(z))
	from := w.GetBlock(x, y, z)
	w.setBlock(p, q, x, y, z, v, true)
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			if dx == 0 && dz == 0 {
				continue
			}
			if dx != 0 && mathx.Chunked(float64(x+dx)) == p {
				continue
			}
			if dz != 0 && mathx.Chunked(float64(z+dz)) == q {
				continue
			}
			w.setBlock(p+dx, q+dz, x, y, z, -v, true)
		}
	}
	w.client.Block(x, y, z, v)
	w.logEdit(EditEntry{Action: "BLOCK", Pos: [3]int{x, y, z}, From: from, To: v})
}

// setBlock writes v into chunk (p, q). Only the owning chunk's value is
// cached; echoes are rebuilt from neighbors on load. Clearing a block in its
// owning chunk also drops its signs and light.
func (w *World) setBlock(p, q, x, y, z, v int, dirty bool) {
	own := owns(p, q, x, z)
	if c := w.chunks.FindChunk(p, q); c != nil {
		if c.Map.Set(x, y, z, v) {
			if dirty {
				w.chunks.Dirty(c)
			}
			if own {
				w.db.InsertBlock(p, q, x, y, z, v)
			}
		}
	} else if own {
		w.db.InsertBlock(p, q, x, y, z, v)
	}
	if v == 0 && own {
		w.UnsetSign(x, y, z)
		w.SetLight(p, q, x, y, z, 0)
	}
}

// SetLight stores light value v at (x, y, z) in chunk (p, q).
func (w *World) SetLight(p, q, x, y, z, v int) {
	if c := w.chunks.FindChunk(p, q); c != nil {
		if c.Lights.Set(x, y, z, v) {
			w.chunks.Dirty(c)
			w.db.InsertLight(p, q, x, y, z, v)
		}
		return
	}
	w.db.InsertLight(p, q, x, y, z, v)
}

// ToggleLight switches the light at (x, y, z) between off and full.
func (w *World) ToggleLight(x, y, z int) {
	p := mathx.Chunked(float64(x))
	q := mathx.Chunked(float64(z))
	c := w.chunks.FindChunk(p, q)
	if c == nil {
		return
	}
	from := c.Lights.Get(x, y, z)
	v := catalogs.MaxLight
	if from != 0 {
		v = 0
	}
	c.Lights.Set(x, y, z, v)
	w.db.InsertLight(p, q, x, y, z, v)
	w.client.Light(x, y, z, v)
	w.chunks.Dirty(c)
	w.logEdit(EditEntry{Action: "LIGHT", Pos: [3]int{x, y, z}, From: from, To: v})
}

// RecordBlock remembers the last two edited blocks for the builder tools.
func (w *World) RecordBlock(x, y, z, v int) {
	w.block1 = w.block0
	w.block0 = Block{X: x, Y: y, Z: z, W: v}
}

// Recorded returns the last (b0) and previous (b1) recorded blocks.
func (w *World) Recorded() (b0, b1 Block) { return w.block0, w.block1 }

// PlayerIntersectsBlock reports whether a player of the given height
// standing at (x, y, z) occupies block (hx, hy, hz).
func PlayerIntersectsBlock(height int, x, y, z float32, hx, hy, hz int) bool {
	nx := mathx.Round(float64(x))
	ny := mathx.Round(float64(y))
	nz := mathx.Round(float64(z))
	for i := 0; i < height; i++ {
		if nx == hx && ny-i == hy && nz == hz {
			return true
		}
	}
	return false
}
