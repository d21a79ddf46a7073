package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelclient.ai/internal/sim/world/logic/mathx"
)

const zNear = 0.125

// Camera describes the viewer for the 3D projection.
type Camera struct {
	X, Y, Z float32
	RX, RY  float32 // yaw and pitch in radians
	Width   int
	Height  int
	FOV     float32 // vertical, degrees
	Radius  int     // render radius in chunks
}

// ZFar is the far plane distance for a render radius in chunks.
func ZFar(radius int) float32 {
	return float32(radius*mathx.ChunkSize + 64)
}

// ViewProjection returns projection * view for c.
func ViewProjection(c Camera) mgl32.Mat4 {
	aspect := float32(1)
	if c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, zNear, ZFar(c.Radius))
	rx := float64(c.RX)
	view := mgl32.HomogRotate3DY(c.RX).
		Mul4(mgl32.HomogRotate3D(-c.RY, mgl32.Vec3{float32(math.Cos(rx)), 0, float32(math.Sin(rx))})).
		Mul4(mgl32.Translate3D(-c.X, -c.Y, -c.Z))
	return proj.Mul4(view)
}

// Planes are the six clip planes (left, right, bottom, top, near, far) of a
// view-projection matrix, each as (a, b, c, d) with inside where
// a*x+b*y+c*z+d >= 0.
type Planes [6]mgl32.Vec4

func FrustumPlanes(m mgl32.Mat4) Planes {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)
	return Planes{
		r3.Add(r0),
		r3.Sub(r0),
		r3.Add(r1),
		r3.Sub(r1),
		r3.Add(r2),
		r3.Sub(r2),
	}
}

// ChunkVisible reports whether the box of chunk (p, q) between minY and
// maxY has a corner inside every plane.
func ChunkVisible(planes *Planes, p, q, minY, maxY int) bool {
	x := float32(p*mathx.ChunkSize - 1)
	z := float32(q*mathx.ChunkSize - 1)
	d := float32(mathx.ChunkSize + 1)
	lo, hi := float32(minY), float32(maxY)
	points := [8]mgl32.Vec4{
		{x, lo, z, 1}, {x + d, lo, z, 1}, {x, lo, z + d, 1}, {x + d, lo, z + d, 1},
		{x, hi, z, 1}, {x + d, hi, z, 1}, {x, hi, z + d, 1}, {x + d, hi, z + d, 1},
	}
	for _, plane := range planes {
		in := 0
		for _, pt := range points {
			if plane.Dot(pt) >= 0 {
				in++
			}
		}
		if in == 0 {
			return false
		}
	}
	return true
}
