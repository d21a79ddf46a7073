package mesh

import (
	"github.com/gammazero/deque"

	"voxelclient.ai/internal/sim/catalogs"
	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/voxel"
)

// Neighborhood is the input of one compute job: block and light maps of a
// chunk and its eight neighbors, indexed [dp+1][dq+1]. Missing neighbors are
// nil. The maps must not be mutated while Compute runs.
type Neighborhood struct {
	P, Q   int
	Blocks [3][3]*voxel.Map
	Lights [3][3]*voxel.Map
}

// Result is the output of one compute job.
type Result struct {
	P, Q  int
	Data  []float32
	Faces int
	MinY  int
	MaxY  int
}

type Options struct {
	ShowLights bool
	// PlantRotation returns the yaw in degrees for a plant at (x, z).
	// Nil means no rotation.
	PlantRotation func(x, z int) float64
}

// Compute builds the vertex data for the center chunk of n.
func Compute(n *Neighborhood, opts Options) Result {
	g := getGrid()
	defer putGrid(g)

	ox := n.P*mathx.ChunkSize - mathx.ChunkSize - 1
	oy := -1
	oz := n.Q*mathx.ChunkSize - mathx.ChunkSize - 1

	// opacity and column heights
	hasLight := false
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			if opts.ShowLights && n.Lights[a][b].Size() > 0 {
				hasLight = true
			}
			m := n.Blocks[a][b]
			if m == nil {
				continue
			}
			m.ForEach(func(ex, ey, ez, ew int) bool {
				x, y, z := ex-ox, ey-oy, ez-oz
				if !inGrid(x, y, z) {
					return true
				}
				opaque := !catalogs.IsTransparent(ew)
				g.opaque[xyz(x, y, z)] = opaque
				if opaque && int16(y) > g.highest[xz(x, z)] {
					g.highest[xz(x, z)] = int16(y)
				}
				return true
			})
		}
	}

	if hasLight {
		var todo deque.Deque[lightStep]
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				m := n.Lights[a][b]
				if m == nil {
					continue
				}
				m.ForEach(func(ex, ey, ez, ew int) bool {
					g.fillLight(&todo, ex-ox, ey-oy, ez-oz, ew)
					return true
				})
			}
		}
	}

	res := Result{P: n.P, Q: n.Q, MinY: 256, MaxY: 0}
	center := n.Blocks[1][1]
	if center == nil {
		return res
	}

	// count exposed faces first so the buffer is sized once
	center.ForEach(func(ex, ey, ez, ew int) bool {
		if ew <= 0 {
			return true
		}
		x, y, z := ex-ox, ey-oy, ez-oz
		_, total := g.exposure(x, y, z, ey)
		if total == 0 {
			return true
		}
		if catalogs.IsPlant(ew) {
			total = 4
		}
		res.MinY = mathx.MinInt(res.MinY, ey)
		res.MaxY = mathx.MaxInt(res.MaxY, ey)
		res.Faces += total
		return true
	})

	data := make([]float32, 0, res.Faces*FloatsPerFace)
	var (
		neighbors [27]bool
		lights    [27]int
		shades    [27]float32
		ao        [6][4]float32
		light     [6][4]float32
	)
	center.ForEach(func(ex, ey, ez, ew int) bool {
		if ew <= 0 {
			return true
		}
		x, y, z := ex-ox, ey-oy, ez-oz
		exposed, total := g.exposure(x, y, z, ey)
		if total == 0 {
			return true
		}
		g.sample(x, y, z, &neighbors, &lights, &shades)
		occlusion(&neighbors, &lights, &shades, &ao, &light)
		fx, fy, fz := float32(ex), float32(ey), float32(ez)
		if catalogs.IsPlant(ew) {
			minAO, maxLight := plantShade(&ao, &light)
			var rotation float64
			if opts.PlantRotation != nil {
				rotation = opts.PlantRotation(ex, ez)
			}
			data = appendPlant(data, minAO, maxLight, fx, fy, fz, 0.5, ew, float32(rotation))
		} else {
			data = appendCube(data, &ao, &light, exposed, fx, fy, fz, 0.5, ew)
		}
		return true
	})
	res.Data = data
	return res
}

// exposure reports which faces of the voxel at grid (x, y, z) border a
// non-opaque cell. The bottom face of world layer 0 is never exposed.
func (g *grid) exposure(x, y, z, worldY int) ([6]bool, int) {
	f := [6]bool{
		!g.isOpaque(x-1, y, z),
		!g.isOpaque(x+1, y, z),
		!g.isOpaque(x, y+1, z),
		!g.isOpaque(x, y-1, z) && worldY > 0,
		!g.isOpaque(x, y, z-1),
		!g.isOpaque(x, y, z+1),
	}
	total := 0
	for _, e := range f {
		if e {
			total++
		}
	}
	return f, total
}

// sample fills the 27-cell neighborhood around grid (x, y, z): opacity,
// light, and a shade for cells that sit under something opaque within eight
// blocks above.
func (g *grid) sample(x, y, z int, neighbors *[27]bool, lights *[27]int, shades *[27]float32) {
	i := 0
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				neighbors[i] = g.isOpaque(x+dx, y+dy, z+dz)
				lights[i] = g.lightAt(x+dx, y+dy, z+dz)
				shades[i] = 0
				if inGrid(x+dx, 0, z+dz) && y+dy <= int(g.highest[xz(x+dx, z+dz)]) {
					for oy := 0; oy < 8; oy++ {
						if g.isOpaque(x+dx, y+dy+oy, z+dz) {
							shades[i] = 1 - float32(oy)*0.125
							break
						}
					}
				}
				i++
			}
		}
	}
}
