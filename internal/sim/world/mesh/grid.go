package mesh

import (
	"sync"

	"voxelclient.ai/internal/sim/world/logic/mathx"
)

// The working grid spans the center chunk, both horizontal neighbors and one
// extra block on each side, over the full world height plus padding.
const (
	xzSize = mathx.ChunkSize*3 + 2
	xzLo   = mathx.ChunkSize
	xzHi   = mathx.ChunkSize*2 + 1
	ySize  = 258
	volume = xzSize * xzSize * ySize
)

func xyz(x, y, z int) int { return y*xzSize*xzSize + x*xzSize + z }
func xz(x, z int) int     { return x*xzSize + z }

func inGrid(x, y, z int) bool {
	return x >= 0 && x < xzSize && y >= 0 && y < ySize && z >= 0 && z < xzSize
}

type grid struct {
	opaque  []bool
	light   []int8
	highest []int16
}

var gridPool = sync.Pool{
	New: func() any {
		return &grid{
			opaque:  make([]bool, volume),
			light:   make([]int8, volume),
			highest: make([]int16, xzSize*xzSize),
		}
	},
}

func getGrid() *grid {
	g := gridPool.Get().(*grid)
	clear(g.opaque)
	clear(g.light)
	clear(g.highest)
	return g
}

func putGrid(g *grid) { gridPool.Put(g) }

func (g *grid) isOpaque(x, y, z int) bool {
	if !inGrid(x, y, z) {
		return false
	}
	return g.opaque[xyz(x, y, z)]
}

func (g *grid) lightAt(x, y, z int) int {
	if !inGrid(x, y, z) {
		return 0
	}
	return int(g.light[xyz(x, y, z)])
}
