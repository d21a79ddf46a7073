package gen

import (
	"github.com/ojrac/opensimplex-go"

	"voxelclient.ai/internal/sim/catalogs"
	"voxelclient.ai/internal/sim/world/logic/mathx"
)

// SetFunc receives one generated voxel.
type SetFunc func(x, y, z, w int)

type Config struct {
	Seed       int64
	ShowPlants bool
	ShowTrees  bool
	ShowClouds bool
}

// Noise is fractal simplex noise normalized to [0, 1].
type Noise struct {
	src opensimplex.Noise
}

func NewNoise(seed int64) *Noise {
	return &Noise{src: opensimplex.New(seed)}
}

func (n *Noise) Octave2(x, y float64, octaves int, persistence, lacunarity float64) float64 {
	freq, amp, max := 1.0, 1.0, 1.0
	total := n.src.Eval2(x, y)
	for i := 1; i < octaves; i++ {
		freq *= lacunarity
		amp *= persistence
		max += amp
		total += n.src.Eval2(x*freq, y*freq) * amp
	}
	return clamp01((1 + total/max) / 2)
}

func (n *Noise) Octave3(x, y, z float64, octaves int, persistence, lacunarity float64) float64 {
	freq, amp, max := 1.0, 1.0, 1.0
	total := n.src.Eval3(x, y, z)
	for i := 1; i < octaves; i++ {
		freq *= lacunarity
		amp *= persistence
		max += amp
		total += n.src.Eval3(x*freq, y*freq, z*freq) * amp
	}
	return clamp01((1 + total/max) / 2)
}

// PlantRotation returns a stable yaw in degrees for the plant at (x, z).
func (n *Noise) PlantRotation(x, z int) float64 {
	return n.Octave2(float64(x), float64(z), 4, 0.5, 2) * 360
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

const (
	waterLevel = 12
	snowLine   = 44
	cloudLow   = 64
	cloudHigh  = 72
)

type Generator struct {
	cfg   Config
	noise *Noise
}

func New(cfg Config) *Generator {
	return &Generator{cfg: cfg, noise: NewNoise(cfg.Seed)}
}

func (g *Generator) Noise() *Noise { return g.noise }

// Generate emits the blocks of chunk (p, q) plus a one-block halo around it.
// Halo voxels are emitted negated so neighbors can cull faces against them
// without treating them as owned blocks.
func (g *Generator) Generate(p, q int, set SetFunc) {
	const pad = 1
	n := g.noise
	for dx := -pad; dx < mathx.ChunkSize+pad; dx++ {
		for dz := -pad; dz < mathx.ChunkSize+pad; dz++ {
			flag := 1
			if dx < 0 || dz < 0 || dx >= mathx.ChunkSize || dz >= mathx.ChunkSize {
				flag = -1
			}
			x := p*mathx.ChunkSize + dx
			z := q*mathx.ChunkSize + dz
			fx, fz := float64(x), float64(z)

			f := n.Octave2(fx*0.01, fz*0.01, 4, 0.5, 2)
			gm := n.Octave2(-fx*0.01, -fz*0.01, 2, 0.9, 2)
			mh := int(gm*32 + 16)
			h := int(f * float64(mh))
			w := catalogs.Grass
			if h <= waterLevel {
				h = waterLevel
				w = catalogs.Sand
			}
			for y := 0; y < h; y++ {
				b := w
				if w == catalogs.Grass && h >= snowLine && y == h-1 {
					b = catalogs.Snow
				}
				set(x, y, z, b*flag)
			}
			if w == catalogs.Grass && h < snowLine {
				g.vegetation(x, h, z, dx, dz, flag, set)
			}
			if g.cfg.ShowClouds {
				for y := cloudLow; y < cloudHigh; y++ {
					if n.Octave3(fx*0.01, float64(y)*0.1, fz*0.01, 8, 0.5, 2) > 0.75 {
						set(x, y, z, catalogs.Cloud*flag)
					}
				}
			}
		}
	}
}

func (g *Generator) vegetation(x, h, z, dx, dz, flag int, set SetFunc) {
	n := g.noise
	fx, fz := float64(x), float64(z)
	if g.cfg.ShowPlants {
		if n.Octave2(-fx*0.1, fz*0.1, 4, 0.8, 2) > 0.6 {
			set(x, h, z, catalogs.TallGrass*flag)
		}
		if n.Octave2(fx*0.05, -fz*0.05, 4, 0.8, 2) > 0.7 {
			w := catalogs.YellowFlower + int(n.Octave2(fx*0.1, fz*0.1, 4, 0.8, 2)*7)
			if w > catalogs.BlueFlower {
				w = catalogs.BlueFlower
			}
			set(x, h, z, w*flag)
		}
	}
	if !g.cfg.ShowTrees {
		return
	}
	// Trees stay four blocks clear of the chunk edge so the canopy never
	// spills into a neighbor.
	if dx-4 < 0 || dz-4 < 0 || dx+4 >= mathx.ChunkSize || dz+4 >= mathx.ChunkSize {
		return
	}
	if n.Octave2(fx, fz, 6, 0.5, 2) <= 0.84 {
		return
	}
	Tree(x, h, z, set)
}

// Tree stamps a trunk and a leaf ball rooted at (x, y, z).
func Tree(x, y, z int, set SetFunc) {
	for ly := y + 3; ly < y+8; ly++ {
		for ox := -3; ox <= 3; ox++ {
			for oz := -3; oz <= 3; oz++ {
				oy := ly - (y + 4)
				if ox*ox+oy*oy+oz*oz < 11 {
					set(x+ox, ly, z+oz, catalogs.Leaves)
				}
			}
		}
	}
	for ty := y; ty < y+7; ty++ {
		set(x, ty, z, catalogs.Wood)
	}
}
