package catalogs

// Block ids. Negative values in a voxel map are boundary echoes of the
// positive id; predicates take the absolute value where it matters.
const (
	Empty        = 0
	Grass        = 1
	Sand         = 2
	Stone        = 3
	Brick        = 4
	Wood         = 5
	Cement       = 6
	Dirt         = 7
	Plank        = 8
	Snow         = 9
	Glass        = 10
	Cobble       = 11
	LightStone   = 12
	DarkStone    = 13
	Chest        = 14
	Leaves       = 15
	Cloud        = 16
	TallGrass    = 17
	YellowFlower = 18
	RedFlower    = 19
	PurpleFlower = 20
	SunFlower    = 21
	WhiteFlower  = 22
	BlueFlower   = 23
	Color00      = 32
	Color31      = 63
)

// MaxLight is the intensity of a placed light source.
const MaxLight = 15

// Items lists the block ids a player can cycle through and place.
var Items = []int{
	Grass, Sand, Stone, Brick, Wood, Cement, Dirt, Plank, Snow, Glass,
	Cobble, LightStone, DarkStone, Chest, Leaves,
	TallGrass, YellowFlower, RedFlower, PurpleFlower, SunFlower, WhiteFlower, BlueFlower,
	32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47,
	48, 49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63,
}

// blockTiles holds texture tile indices per face:
// left, right, top, bottom, front, back.
var blockTiles = [64][6]int{
	Grass:      {16, 16, 32, 0, 16, 16},
	Sand:       {1, 1, 1, 1, 1, 1},
	Stone:      {2, 2, 2, 2, 2, 2},
	Brick:      {3, 3, 3, 3, 3, 3},
	Wood:       {20, 20, 36, 4, 20, 20},
	Cement:     {5, 5, 5, 5, 5, 5},
	Dirt:       {6, 6, 6, 6, 6, 6},
	Plank:      {7, 7, 7, 7, 7, 7},
	Snow:       {24, 24, 40, 8, 24, 24},
	Glass:      {9, 9, 9, 9, 9, 9},
	Cobble:     {10, 10, 10, 10, 10, 10},
	LightStone: {11, 11, 11, 11, 11, 11},
	DarkStone:  {12, 12, 12, 12, 12, 12},
	Chest:      {13, 13, 13, 13, 13, 13},
	Leaves:     {14, 14, 14, 14, 14, 14},
	Cloud:      {15, 15, 15, 15, 15, 15},
}

func init() {
	for w := Color00; w <= Color31; w++ {
		t := 176 + (w - Color00)
		blockTiles[w] = [6]int{t, t, t, t, t, t}
	}
}

func abs(w int) int {
	if w < 0 {
		return -w
	}
	return w
}

// Tiles returns the per-face texture tiles for block w.
func Tiles(w int) [6]int {
	w = abs(w)
	if w >= len(blockTiles) {
		return [6]int{}
	}
	return blockTiles[w]
}

// PlantTile returns the texture tile of plant w.
func PlantTile(w int) int {
	if !IsPlant(w) {
		return 0
	}
	return 48 + (abs(w) - TallGrass)
}

func IsPlant(w int) bool {
	switch abs(w) {
	case TallGrass, YellowFlower, RedFlower, PurpleFlower, SunFlower, WhiteFlower, BlueFlower:
		return true
	}
	return false
}

// IsObstacle reports whether w blocks movement and targeting.
func IsObstacle(w int) bool {
	w = abs(w)
	if IsPlant(w) {
		return false
	}
	switch w {
	case Empty, Cloud:
		return false
	}
	return true
}

// IsTransparent reports whether light and visibility pass through w.
func IsTransparent(w int) bool {
	w = abs(w)
	if IsPlant(w) {
		return true
	}
	switch w {
	case Empty, Glass, Leaves:
		return true
	}
	return false
}

func IsDestructable(w int) bool {
	switch w {
	case Empty, Cloud:
		return false
	}
	return true
}
