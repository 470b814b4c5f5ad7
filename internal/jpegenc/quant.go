package jpegenc

import "math"

// scaledQuantTable computes a quality-scaled quantization table in natural
// order, per spec.md §4.5.4.
func scaledQuantTable(base [64]int, quality int) [64]int {
	scale := 200 - 2*quality
	if quality < 50 {
		scale = 5000 / quality
	}
	var out [64]int
	for i, q := range base {
		v := (q*scale + 50) / 100
		if v < 1 {
			v = 1
		}
		if v > 255 {
			v = 255
		}
		out[i] = v
	}
	return out
}

// quantizeZigZag quantizes an 8x8 DCT coefficient matrix (indexed
// [vertical frequency][horizontal frequency], as forwardDCT returns it)
// against quant (natural order) and emits the 64 results in
// zig-zag scan order, per spec.md §4.5.4.
func quantizeZigZag(block [8][8]float64, quant [64]int) [64]int {
	var natural [64]float64
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			natural[u*8+v] = block[u][v]
		}
	}
	var out [64]int
	for i := 0; i < 64; i++ {
		k := zigzag[i]
		out[i] = int(math.Round(natural[k] / float64(quant[k])))
	}
	return out
}
