package world

import (
	"math"

	"voxelclient.ai/internal/sim/catalogs"
	"voxelclient.ai/internal/sim/world/logic/mathx"
)

const playerHeight = 2

// Input is one frame of movement intent. SZ is -1 forward, +1 backward;
// SX is -1 left, +1 right. DRX and DRY are look deltas in radians.
type Input struct {
	SZ, SX   int
	Jump     bool
	DRX, DRY float32
}

// MotionVector converts strafe intent into a direction for yaw rx and
// pitch ry. Only flying follows the pitch.
func MotionVector(flying bool, sz, sx int, rx, ry float32) (vx, vy, vz float32) {
	if sz == 0 && sx == 0 {
		return 0, 0, 0
	}
	strafe := math.Atan2(float64(sz), float64(sx))
	yaw := float64(rx) + strafe
	if !flying {
		return float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))
	}
	m := math.Cos(float64(ry))
	y := math.Sin(float64(ry))
	if sx != 0 {
		if sz == 0 {
			y = 0
		}
		m = 1
	}
	if sz > 0 {
		y = -y
	}
	return float32(math.Cos(yaw) * m), float32(y), float32(math.Sin(yaw) * m)
}

// Collide pushes (x, y, z) out of obstacles for a body of the given height
// and reports whether it hit something vertically.
func (w *World) Collide(height int, x, y, z *float32) bool {
	p := mathx.Chunked(float64(*x))
	q := mathx.Chunked(float64(*z))
	c := w.chunks.FindChunk(p, q)
	if c == nil {
		return false
	}
	m := c.Map
	nx := mathx.Round(float64(*x))
	ny := mathx.Round(float64(*y))
	nz := mathx.Round(float64(*z))
	px := *x - float32(nx)
	py := *y - float32(ny)
	pz := *z - float32(nz)
	const pad = 0.25
	result := false
	for dy := 0; dy < height; dy++ {
		if px < -pad && catalogs.IsObstacle(m.Get(nx-1, ny-dy, nz)) {
			*x = float32(nx) - pad
		}
		if px > pad && catalogs.IsObstacle(m.Get(nx+1, ny-dy, nz)) {
			*x = float32(nx) + pad
		}
		if py < -pad && catalogs.IsObstacle(m.Get(nx, ny-dy-1, nz)) {
			*y = float32(ny) - pad
			result = true
		}
		if py > pad && catalogs.IsObstacle(m.Get(nx, ny-dy+1, nz)) {
			*y = float32(ny) + pad
			result = true
		}
		if pz < -pad && catalogs.IsObstacle(m.Get(nx, ny-dy, nz-1)) {
			*z = float32(nz) - pad
		}
		if pz > pad && catalogs.IsObstacle(m.Get(nx, ny-dy, nz+1)) {
			*z = float32(nz) + pad
		}
	}
	return result
}

// HighestBlock returns the top obstacle y in the column at (x, z), or -1.
func (w *World) HighestBlock(x, z float32) int {
	nx := mathx.Round(float64(x))
	nz := mathx.Round(float64(z))
	c := w.chunks.FindChunk(mathx.Chunked(float64(x)), mathx.Chunked(float64(z)))
	if c == nil {
		return -1
	}
	result := -1
	c.Map.ForEach(func(ex, ey, ez, ev int) bool {
		if catalogs.IsObstacle(ev) && ex == nx && ez == nz && ey > result {
			result = ey
		}
		return true
	})
	return result
}

// HandleMovement integrates the local player over dt seconds.
func (w *World) HandleMovement(dt float64, in Input) {
	s := &w.players[0].State
	s.RX += in.DRX
	s.RY += in.DRY
	vx, vy, vz := MotionVector(w.flying, in.SZ, in.SX, s.RX, s.RY)
	if in.Jump {
		if w.flying {
			vy = 1
		} else if w.fall == 0 {
			w.fall = 8
		}
	}
	speed := float32(5)
	if w.flying {
		speed = 20
	}
	estimate := mathx.Round(math.Sqrt(
		sq(float64(vx*speed))+
			sq(float64(vy*speed+float32(math.Abs(float64(w.fall)))*2))+
			sq(float64(vz*speed))) * dt * 8)
	step := mathx.MaxInt(8, estimate)
	ut := float32(dt / float64(step))
	vx, vy, vz = vx*ut*speed, vy*ut*speed, vz*ut*speed
	for i := 0; i < step; i++ {
		if w.flying {
			w.fall = 0
		} else {
			w.fall -= ut * 25
			if w.fall < -250 {
				w.fall = -250
			}
		}
		s.X += vx
		s.Y += vy + w.fall*ut
		s.Z += vz
		if w.Collide(playerHeight, &s.X, &s.Y, &s.Z) {
			w.fall = 0
		}
	}
	if s.Y < 0 {
		s.Y = float32(w.HighestBlock(s.X, s.Z) + 2)
	}
}
