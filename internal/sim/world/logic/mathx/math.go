package mathx

import "math"

// ChunkSize is the edge length of a chunk column in blocks.
const ChunkSize = 32

func FloorDiv(a, b int) int {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func Mod(a, b int) int {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// Round rounds half away from zero.
func Round(x float64) int {
	return int(math.Round(x))
}

// Chunked maps a world coordinate to its chunk coordinate:
// floor(round(x) / ChunkSize). Rounding first keeps block centers on the
// same side of a chunk edge as the block itself, including negatives.
func Chunked(x float64) int {
	return FloorDiv(Round(x), ChunkSize)
}

// HashInt is a 32-bit Wang/Jenkins style integer mix.
func HashInt(key uint32) uint32 {
	key = ^key + (key << 15)
	key = key ^ (key >> 12)
	key = key + (key << 2)
	key = key ^ (key >> 4)
	key = key * 2057
	key = key ^ (key >> 16)
	return key
}
