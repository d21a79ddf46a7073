package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelclient.ai/internal/sim/catalogs"
)

// Vertex layout: position(3) normal(3) uv(2) ao(1) light(1).
const (
	FloatsPerVertex = 10
	VerticesPerFace = 6
	FloatsPerFace   = FloatsPerVertex * VerticesPerFace
)

const (
	tileStep  = 0.0625
	tileInset = 1.0 / 2048
)

var cubePositions = [6][4][3]float32{
	{{-1, -1, -1}, {-1, -1, +1}, {-1, +1, -1}, {-1, +1, +1}},
	{{+1, -1, -1}, {+1, -1, +1}, {+1, +1, -1}, {+1, +1, +1}},
	{{-1, +1, -1}, {-1, +1, +1}, {+1, +1, -1}, {+1, +1, +1}},
	{{-1, -1, -1}, {-1, -1, +1}, {+1, -1, -1}, {+1, -1, +1}},
	{{-1, -1, -1}, {-1, +1, -1}, {+1, -1, -1}, {+1, +1, -1}},
	{{-1, -1, +1}, {-1, +1, +1}, {+1, -1, +1}, {+1, +1, +1}},
}

var cubeNormals = [6][3]float32{
	{-1, 0, 0}, {+1, 0, 0}, {0, +1, 0}, {0, -1, 0}, {0, 0, -1}, {0, 0, +1},
}

var cubeUVs = [6][4][2]float32{
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{1, 0}, {0, 0}, {1, 1}, {0, 1}},
	{{0, 1}, {0, 0}, {1, 1}, {1, 0}},
	{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	{{1, 0}, {1, 1}, {0, 0}, {0, 1}},
}

var cubeIndices = [6][6]int{
	{0, 3, 2, 0, 1, 3},
	{0, 3, 1, 0, 2, 3},
	{0, 3, 2, 0, 1, 3},
	{0, 3, 1, 0, 2, 3},
	{0, 3, 2, 0, 1, 3},
	{0, 3, 1, 0, 2, 3},
}

// cubeFlipped splits the quad along the other diagonal.
var cubeFlipped = [6][6]int{
	{0, 1, 2, 1, 3, 2},
	{0, 2, 1, 2, 3, 1},
	{0, 1, 2, 1, 3, 2},
	{0, 2, 1, 2, 3, 1},
	{0, 1, 2, 1, 3, 2},
	{0, 2, 1, 2, 3, 1},
}

var plantPositions = [4][4][3]float32{
	{{0, -1, -1}, {0, -1, +1}, {0, +1, -1}, {0, +1, +1}},
	{{0, -1, -1}, {0, -1, +1}, {0, +1, -1}, {0, +1, +1}},
	{{-1, -1, 0}, {-1, +1, 0}, {+1, -1, 0}, {+1, +1, 0}},
	{{-1, -1, 0}, {-1, +1, 0}, {+1, -1, 0}, {+1, +1, 0}},
}

var plantNormals = [4][3]float32{
	{-1, 0, 0}, {+1, 0, 0}, {0, 0, -1}, {0, 0, +1},
}

var plantUVs = [4][4][2]float32{
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	{{1, 0}, {0, 0}, {1, 1}, {0, 1}},
	{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	{{1, 0}, {1, 1}, {0, 0}, {0, 1}},
}

// appendCube emits the exposed faces of a cube of half-size n centered on
// (x, y, z). exposed is ordered left, right, top, bottom, front, back.
func appendCube(dst []float32, ao, light *[6][4]float32, exposed [6]bool, x, y, z, n float32, w int) []float32 {
	tiles := catalogs.Tiles(w)
	const a, b = tileInset, tileStep - tileInset
	for i := 0; i < 6; i++ {
		if !exposed[i] {
			continue
		}
		du := float32(tiles[i]%16) * tileStep
		dv := float32(tiles[i]/16) * tileStep
		flip := ao[i][0]+ao[i][3] > ao[i][1]+ao[i][2]
		for v := 0; v < 6; v++ {
			j := cubeIndices[i][v]
			if flip {
				j = cubeFlipped[i][v]
			}
			dst = append(dst,
				x+n*cubePositions[i][j][0],
				y+n*cubePositions[i][j][1],
				z+n*cubePositions[i][j][2],
				cubeNormals[i][0], cubeNormals[i][1], cubeNormals[i][2],
				du+pick(cubeUVs[i][j][0], a, b),
				dv+pick(cubeUVs[i][j][1], a, b),
				ao[i][j], light[i][j],
			)
		}
	}
	return dst
}

// appendPlant emits the four faces of a plant cross rotated by rotation
// degrees around the vertical axis through (x, y, z).
func appendPlant(dst []float32, ao, light float32, x, y, z, n float32, w int, rotation float32) []float32 {
	tile := catalogs.PlantTile(w)
	du := float32(tile%16) * tileStep
	dv := float32(tile/16) * tileStep
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(rotation))
	model := mgl32.Translate3D(x, y, z).Mul4(rot)
	for i := 0; i < 4; i++ {
		normal := rot.Mul4x1(mgl32.Vec3(plantNormals[i]).Vec4(0))
		for v := 0; v < 6; v++ {
			j := cubeIndices[i][v]
			p := mgl32.Vec3(plantPositions[i][j]).Mul(n)
			pos := model.Mul4x1(p.Vec4(1))
			dst = append(dst,
				pos.X(), pos.Y(), pos.Z(),
				normal.X(), normal.Y(), normal.Z(),
				du+pick(plantUVs[i][j][0], 0, tileStep),
				dv+pick(plantUVs[i][j][1], 0, tileStep),
				ao, light,
			)
		}
	}
	return dst
}

func pick(flag, a, b float32) float32 {
	if flag != 0 {
		return b
	}
	return a
}
