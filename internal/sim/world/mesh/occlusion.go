package mesh

// Corner lookups into the 27-cell neighborhood (dx outer, dy, dz inner),
// per face (left, right, top, bottom, front, back) and corner.
var lookup3 = [6][4][3]int{
	{{0, 1, 3}, {2, 1, 5}, {6, 3, 7}, {8, 5, 7}},
	{{18, 19, 21}, {20, 19, 23}, {24, 21, 25}, {26, 23, 25}},
	{{6, 7, 15}, {8, 7, 17}, {24, 15, 25}, {26, 17, 25}},
	{{0, 1, 9}, {2, 1, 11}, {18, 9, 19}, {20, 11, 19}},
	{{0, 3, 9}, {6, 3, 15}, {18, 9, 21}, {24, 15, 21}},
	{{2, 5, 11}, {8, 5, 17}, {20, 11, 23}, {26, 17, 23}},
}

var lookup4 = [6][4][4]int{
	{{0, 1, 3, 4}, {1, 2, 4, 5}, {3, 4, 6, 7}, {4, 5, 7, 8}},
	{{18, 19, 21, 22}, {19, 20, 22, 23}, {21, 22, 24, 25}, {22, 23, 25, 26}},
	{{6, 7, 15, 16}, {7, 8, 16, 17}, {15, 16, 24, 25}, {16, 17, 25, 26}},
	{{0, 1, 9, 10}, {1, 2, 10, 11}, {9, 10, 18, 19}, {10, 11, 19, 20}},
	{{0, 3, 9, 12}, {3, 6, 12, 15}, {9, 12, 18, 21}, {12, 15, 21, 24}},
	{{2, 5, 11, 14}, {5, 8, 14, 17}, {11, 14, 20, 23}, {14, 17, 23, 26}},
}

var aoCurve = [4]float32{0.0, 0.25, 0.5, 0.75}

// occlusion computes per-corner ambient occlusion and light for all six
// faces of the voxel at the center of the neighborhood.
func occlusion(neighbors *[27]bool, lights *[27]int, shades *[27]float32, ao, light *[6][4]float32) {
	isLight := lights[13] == 15
	for i := 0; i < 6; i++ {
		for j := 0; j < 4; j++ {
			corner := b2i(neighbors[lookup3[i][j][0]])
			side1 := b2i(neighbors[lookup3[i][j][1]])
			side2 := b2i(neighbors[lookup3[i][j][2]])
			value := corner + side1 + side2
			if side1 == 1 && side2 == 1 {
				value = 3
			}
			var shadeSum float32
			lightSum := 0
			for k := 0; k < 4; k++ {
				shadeSum += shades[lookup4[i][j][k]]
				lightSum += lights[lookup4[i][j][k]]
			}
			if isLight {
				lightSum = 15 * 4 * 10
			}
			total := aoCurve[value] + shadeSum/4
			if total > 1 {
				total = 1
			}
			ao[i][j] = total
			light[i][j] = float32(lightSum) / 15 / 4
		}
	}
}

// plantShade collapses per-corner values to the single darkest AO and
// brightest light a plant is drawn with.
func plantShade(ao, light *[6][4]float32) (minAO, maxLight float32) {
	minAO = 1
	for i := 0; i < 6; i++ {
		for j := 0; j < 4; j++ {
			minAO = min(minAO, ao[i][j])
			maxLight = max(maxLight, light[i][j])
		}
	}
	return minAO, maxLight
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
