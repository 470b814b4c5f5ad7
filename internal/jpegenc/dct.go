package jpegenc

import "math"

// cosTable[x][u] = cos((2x+1)*u*pi/16), precomputed once.
var cosTable [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			cosTable[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
}

func cNorm(k int) float64 {
	if k == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// forwardDCT computes the 8x8 forward DCT-II per spec.md §4.5.3, directly
// from the reference double-sum definition. block is indexed block[y][x]
// (row, column); the result is indexed out[v][u], with v the vertical and
// u the horizontal frequency, so it keeps block's row/column orientation
// and flattens row-major into JPEG natural order.
func forwardDCT(block [8][8]float64) [8][8]float64 {
	var out [8][8]float64
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			var sum float64
			for x := 0; x < 8; x++ {
				for y := 0; y < 8; y++ {
					sum += block[y][x] * cosTable[x][u] * cosTable[y][v]
				}
			}
			out[v][u] = 0.25 * cNorm(u) * cNorm(v) * sum
		}
	}
	return out
}
