package world

import (
	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/mesh"
	"voxelclient.ai/internal/sim/world/terrain/store"
	"voxelclient.ai/internal/sim/world/voxel"
)

// initChunk registers an empty chunk and loads its signs. Returns nil when
// the chunk budget is exhausted.
func (w *World) initChunk(p, q int) *store.Chunk {
	c := w.chunks.Create(p, q)
	if c == nil {
		if !w.capWarned {
			w.capWarned = true
			w.logger.Printf("chunk budget of %d reached; not creating more", w.cfg.MaxChunks)
		}
		return nil
	}
	w.db.LoadSigns(&c.Signs, p, q)
	return c
}

// createChunk initializes, generates and loads a chunk synchronously.
func (w *World) createChunk(p, q int) *store.Chunk {
	c := w.initChunk(p, q)
	if c == nil {
		return nil
	}
	w.loadChunk(p, q, c.Map, c.Lights)
	w.requestChunk(p, q)
	return c
}

// loadChunk fills the maps of chunk (p, q) with generated terrain and then
// the cached overrides. Runs on worker goroutines.
func (w *World) loadChunk(p, q int, blocks, lights *voxel.Map) {
	w.gen.Generate(p, q, func(x, y, z, v int) { blocks.Set(x, y, z, v) })
	w.db.LoadBlocks(blocks, p, q)
	w.db.LoadLights(lights, p, q)
}

func (w *World) requestChunk(p, q int) {
	w.client.Chunk(p, q, w.db.GetKey(p, q))
}

func (w *World) meshOptions() mesh.Options {
	return mesh.Options{
		ShowLights:    w.cfg.ShowLights,
		PlantRotation: w.gen.Noise().PlantRotation,
	}
}

// genChunkBuffer meshes c synchronously over the live neighbor maps.
func (w *World) genChunkBuffer(c *store.Chunk) {
	nb := &mesh.Neighborhood{P: c.P, Q: c.Q}
	around := w.chunks.Neighborhood(c)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if o := around[a][b]; o != nil {
				nb.Blocks[a][b] = o.Map
				nb.Lights[a][b] = o.Lights
			}
		}
	}
	res := mesh.Compute(nb, w.meshOptions())
	c.Commit(res.Data, res.Faces, res.MinY, res.MaxY)
	c.Dirty = false
}

// observedCenters returns the chunk positions of the local player and the
// two observed players.
func (w *World) observedCenters() []store.ChunkKey {
	idx := []int{0, w.observe1, w.observe2}
	out := make([]store.ChunkKey, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(w.players) {
			continue
		}
		s := w.players[i].State
		out = append(out, store.ChunkKey{P: mathx.Chunked(float64(s.X)), Q: mathx.Chunked(float64(s.Z))})
	}
	return out
}

// DeleteChunks drops every chunk at or beyond the delete radius from all
// observed players.
func (w *World) DeleteChunks() int {
	n := w.chunks.DeleteFar(w.observedCenters(), w.cfg.DeleteRadius)
	if n > 0 {
		w.capWarned = false
	}
	return n
}

func (w *World) DeleteAllChunks() {
	w.chunks.DeleteAll()
	w.capWarned = false
}
