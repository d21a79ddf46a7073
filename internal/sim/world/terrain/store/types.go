package store

import (
	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/voxel"
)

const (
	blockCapacity = 0x8000
	lightCapacity = 0x10
)

type ChunkKey struct {
	P int
	Q int
}

type Chunk struct {
	P, Q int

	Map    *voxel.Map // block ids, negative = boundary echo
	Lights *voxel.Map // light intensities
	Signs  SignList

	Dirty bool

	// Last committed mesh. Built is set once any mesh has been committed,
	// even an empty one.
	Mesh  []float32
	Faces int
	MinY  int
	MaxY  int
	Built bool
}

func (c *Chunk) Key() ChunkKey { return ChunkKey{P: c.P, Q: c.Q} }

// Origin is the lower corner used as the voxel map origin: one block below
// the chunk on each horizontal axis so the halo fits in the byte window.
func Origin(p, q int) (dx, dy, dz int) {
	return p*mathx.ChunkSize - 1, 0, q*mathx.ChunkSize - 1
}

func newChunk(p, q int) *Chunk {
	dx, dy, dz := Origin(p, q)
	return &Chunk{
		P:      p,
		Q:      q,
		Map:    voxel.New(dx, dy, dz, blockCapacity),
		Lights: voxel.New(dx, dy, dz, lightCapacity),
	}
}

// Free releases the chunk's maps, signs and mesh.
func (c *Chunk) Free() {
	c.Map.Free()
	c.Lights.Free()
	c.Signs.Reset()
	c.Mesh = nil
	c.Faces = 0
	c.Built = false
}

// Commit installs a freshly computed mesh.
func (c *Chunk) Commit(mesh []float32, faces, minY, maxY int) {
	c.Mesh = mesh
	c.Faces = faces
	c.MinY = minY
	c.MaxY = maxY
	c.Built = true
}

type Store struct {
	Chunks     []*Chunk
	MaxChunks  int
	ShowLights bool
}

func NewStore(maxChunks int, showLights bool) *Store {
	return &Store{
		Chunks:     make([]*Chunk, 0, 256),
		MaxChunks:  maxChunks,
		ShowLights: showLights,
	}
}
