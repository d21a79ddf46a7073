package world

import (
	"math"

	"voxelclient.ai/internal/sim/catalogs"
	"voxelclient.ai/internal/sim/world/logic/mathx"
	"voxelclient.ai/internal/sim/world/terrain/store"
	"voxelclient.ai/internal/sim/world/voxel"
)

const (
	hitSteps       = 32
	hitMaxDistance = 8
)

// Face ids returned by HitTestFace.
const (
	FaceWest  = 0
	FaceEast  = 1
	FaceSouth = 2
	FaceNorth = 3
	FaceTop   = 4 // 4..7 by horizontal orientation
)

// SightVector is the unit view direction for yaw rx and pitch ry (radians).
// Yaw 0 looks down -z.
func SightVector(rx, ry float64) (vx, vy, vz float64) {
	m := math.Cos(ry)
	vx = math.Cos(rx-math.Pi/2) * m
	vy = math.Sin(ry)
	vz = math.Sin(rx-math.Pi/2) * m
	return
}

// RayMarch walks from (x, y, z) along (vx, vy, vz) in 1/32 block steps up
// to maxDistance and returns the first positive value in m with its
// coordinate. With previous set, the coordinate is the last empty one
// visited before the hit.
func RayMarch(m *voxel.Map, maxDistance float64, previous bool, x, y, z, vx, vy, vz float64) (w, hx, hy, hz int) {
	px, py, pz := 0, 0, 0
	for i := 0; float64(i) < maxDistance*hitSteps; i++ {
		nx, ny, nz := mathx.Round(x), mathx.Round(y), mathx.Round(z)
		if nx != px || ny != py || nz != pz {
			if hw := m.Get(nx, ny, nz); hw > 0 {
				if previous {
					return hw, px, py, pz
				}
				return hw, nx, ny, nz
			}
			px, py, pz = nx, ny, nz
		}
		x += vx / hitSteps
		y += vy / hitSteps
		z += vz / hitSteps
	}
	return 0, 0, 0, 0
}

// HitTest finds the closest block hit from (x, y, z) looking along
// (rx, ry) across the chunks around the origin.
func (w *World) HitTest(previous bool, x, y, z, rx, ry float32) (hw, bx, by, bz int) {
	fx, fy, fz := float64(x), float64(y), float64(z)
	p := mathx.Chunked(fx)
	q := mathx.Chunked(fz)
	vx, vy, vz := SightVector(float64(rx), float64(ry))
	best := 0.0
	for _, c := range w.chunks.Chunks {
		if store.Distance(c, p, q) > 1 {
			continue
		}
		cw, hx, hy, hz := RayMarch(c.Map, hitMaxDistance, previous, fx, fy, fz, vx, vy, vz)
		if cw <= 0 {
			continue
		}
		d := math.Sqrt(sq(float64(hx)-fx) + sq(float64(hy)-fy) + sq(float64(hz)-fz))
		if best == 0 || d < best {
			best = d
			hw, bx, by, bz = cw, hx, hy, hz
		}
	}
	return
}

func sq(v float64) float64 { return v * v }

// FaceFor maps the step from a hit block to the empty block in front of it
// onto a face id. (sx, sz) is the viewer's horizontal position, used to
// orient the top face. ok is false for steps that are not a single unit
// along one axis, and for the bottom face.
func FaceFor(hx, hy, hz, px, py, pz int, sx, sz float64) (face int, ok bool) {
	dx, dy, dz := px-hx, py-hy, pz-hz
	switch {
	case dx == -1 && dy == 0 && dz == 0:
		return FaceWest, true
	case dx == 1 && dy == 0 && dz == 0:
		return FaceEast, true
	case dx == 0 && dy == 0 && dz == -1:
		return FaceSouth, true
	case dx == 0 && dy == 0 && dz == 1:
		return FaceNorth, true
	case dx == 0 && dy == 1 && dz == 0:
		deg := mathx.Round(math.Atan2(sx-float64(px), sz-float64(pz)) * 180 / math.Pi)
		if deg < 0 {
			deg += 360
		}
		top := ((deg + 45) / 90) % 4
		return FaceTop + top, true
	}
	return 0, false
}

// HitTestFace returns the obstacle block the player looks at and the face
// being looked at.
func (w *World) HitTestFace(player *Player) (x, y, z, face int, ok bool) {
	s := player.State
	hw, hx, hy, hz := w.HitTest(false, s.X, s.Y, s.Z, s.RX, s.RY)
	if !catalogs.IsObstacle(hw) {
		return 0, 0, 0, 0, false
	}
	_, px, py, pz := w.HitTest(true, s.X, s.Y, s.Z, s.RX, s.RY)
	face, ok = FaceFor(hx, hy, hz, px, py, pz, float64(s.X), float64(s.Z))
	if !ok {
		return 0, 0, 0, 0, false
	}
	return hx, hy, hz, face, true
}
