package world

import (
	"math"

	"voxelclient.ai/internal/sim/catalogs"
	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/terrain/gen"
)

// BuilderBlock is the single edit primitive of the region tools: it clears
// a destructable occupant, then places v if non-zero. Layers 0 and 256+ are
// left alone.
func (w *World) BuilderBlock(x, y, z, v int) {
	if y <= 0 || y >= 256 {
		return
	}
	if catalogs.IsDestructable(w.GetBlock(x, y, z)) {
		w.SetBlock(x, y, z, 0)
	}
	if v != 0 {
		w.SetBlock(x, y, z, v)
	}
}

// Copy remembers the two recorded blocks as the copy region.
func (w *World) Copy() {
	w.copy0 = w.block0
	w.copy1 = w.block1
}

// Paste replays the copied columns at the recorded region, mirroring each
// axis as needed so the paste grows in the direction it was marked.
func (w *World) Paste() {
	c1, c2 := w.copy1, w.copy0
	p1, p2 := w.block1, w.block0
	scx := mathx.Sign(c2.X - c1.X)
	scz := mathx.Sign(c2.Z - c1.Z)
	spx := mathx.Sign(p2.X - p1.X)
	spz := mathx.Sign(p2.Z - p1.Z)
	oy := p1.Y - c1.Y
	dx := mathx.AbsInt(c2.X - c1.X)
	dz := mathx.AbsInt(c2.Z - c1.Z)
	for y := 0; y < 256; y++ {
		for x := 0; x <= dx; x++ {
			for z := 0; z <= dz; z++ {
				v := w.GetBlock(c1.X+x*scx, y, c1.Z+z*scz)
				w.BuilderBlock(p1.X+x*spx, y+oy, p1.Z+z*spz, v)
			}
		}
	}
}

// Array repeats b1 along the step b2-b1 xc, yc and zc times per axis.
func (w *World) Array(b1, b2 Block, xc, yc, zc int) {
	if b1.W != b2.W {
		return
	}
	dx, dy, dz := b2.X-b1.X, b2.Y-b1.Y, b2.Z-b1.Z
	if dx == 0 {
		xc = 1
	}
	if dy == 0 {
		yc = 1
	}
	if dz == 0 {
		zc = 1
	}
	for i := 0; i < xc; i++ {
		x := b1.X + dx*i
		for j := 0; j < yc; j++ {
			y := b1.Y + dy*j
			for k := 0; k < zc; k++ {
				w.BuilderBlock(x, y, b1.Z+dz*k, b1.W)
			}
		}
	}
}

// Cube fills the box spanned by b1 and b2, or only its shell (edges for
// a flat box) when fill is false.
func (w *World) Cube(b1, b2 Block, fill bool) {
	if b1.W != b2.W {
		return
	}
	x1, x2 := mathx.MinInt(b1.X, b2.X), mathx.MaxInt(b1.X, b2.X)
	y1, y2 := mathx.MinInt(b1.Y, b2.Y), mathx.MaxInt(b1.Y, b2.Y)
	z1, z2 := mathx.MinInt(b1.Z, b2.Z), mathx.MaxInt(b1.Z, b2.Z)
	a := b2i(x1 == x2) + b2i(y1 == y2) + b2i(z1 == z2)
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			for z := z1; z <= z2; z++ {
				if !fill {
					n := b2i(x == x1 || x == x2) + b2i(y == y1 || y == y2) + b2i(z == z1 || z == z2)
					if n <= a {
						continue
					}
				}
				w.BuilderBlock(x, y, z, b1.W)
			}
		}
	}
}

var sphereCorners = [8][3]float64{
	{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, -0.5}, {-0.5, 0.5, 0.5},
	{0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5},
}

// Sphere places blocks whose cube straddles the sphere of radius around
// center; with fill, blocks fully inside are placed too. fx, fy, fz flatten
// the sphere to the plane through center on that axis.
func (w *World) Sphere(center Block, radius int, fill, fx, fy, fz bool) {
	cx, cy, cz := center.X, center.Y, center.Z
	r := float64(radius)
	for x := cx - radius; x <= cx+radius; x++ {
		if fx && x != cx {
			continue
		}
		for y := cy - radius; y <= cy+radius; y++ {
			if fy && y != cy {
				continue
			}
			for z := cz - radius; z <= cz+radius; z++ {
				if fz && z != cz {
					continue
				}
				inside, outside := false, fill
				for _, o := range sphereCorners {
					dx := float64(x) + o[0] - float64(cx)
					dy := float64(y) + o[1] - float64(cy)
					dz := float64(z) + o[2] - float64(cz)
					if math.Sqrt(dx*dx+dy*dy+dz*dz) < r {
						inside = true
					} else {
						outside = true
					}
				}
				if inside && outside {
					w.BuilderBlock(x, y, z, center.W)
				}
			}
		}
	}
}

// Cylinder stacks flat spheres along the single axis on which b1 and b2
// differ.
func (w *World) Cylinder(b1, b2 Block, radius int, fill bool) {
	if b1.W != b2.W {
		return
	}
	x1, x2 := mathx.MinInt(b1.X, b2.X), mathx.MaxInt(b1.X, b2.X)
	y1, y2 := mathx.MinInt(b1.Y, b2.Y), mathx.MaxInt(b1.Y, b2.Y)
	z1, z2 := mathx.MinInt(b1.Z, b2.Z), mathx.MaxInt(b1.Z, b2.Z)
	fx, fy, fz := x1 != x2, y1 != y2, z1 != z2
	if b2i(fx)+b2i(fy)+b2i(fz) != 1 {
		return
	}
	b := Block{X: x1, Y: y1, Z: z1, W: b1.W}
	switch {
	case fx:
		for x := x1; x <= x2; x++ {
			b.X = x
			w.Sphere(b, radius, fill, true, false, false)
		}
	case fy:
		for y := y1; y <= y2; y++ {
			b.Y = y
			w.Sphere(b, radius, fill, false, true, false)
		}
	case fz:
		for z := z1; z <= z2; z++ {
			b.Z = z
			w.Sphere(b, radius, fill, false, false, true)
		}
	}
}

// Tree stamps the generator's tree at b through BuilderBlock.
func (w *World) Tree(b Block) {
	gen.Tree(b.X, b.Y, b.Z, w.BuilderBlock)
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}
