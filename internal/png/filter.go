package png

import "fmt"

// unfilter reverses PNG scanline filtering (spec.md §4.4 step 5). raw is
// height rows of (1 filter byte + stride data bytes); the returned buffer
// is height*stride unfiltered bytes, filter bytes stripped.
func unfilter(raw []byte, height, stride, bpp int) ([]byte, error) {
	out := make([]byte, height*stride)
	prevRow := make([]byte, stride) // all zero: row -1 is defined as zero

	pos := 0
	for y := 0; y < height; y++ {
		filterType := raw[pos]
		pos++
		src := raw[pos : pos+stride]
		pos += stride

		curRow := out[y*stride : (y+1)*stride]
		if err := unfilterRow(filterType, src, curRow, prevRow, bpp); err != nil {
			return nil, err
		}
		prevRow = curRow
	}
	return out, nil
}

func unfilterRow(filterType byte, src, dst, prevRow []byte, bpp int) error {
	switch filterType {
	case 0: // None
		copy(dst, src)
	case 1: // Sub
		for i, x := range src {
			var a byte
			if i >= bpp {
				a = dst[i-bpp]
			}
			dst[i] = x + a
		}
	case 2: // Up
		for i, x := range src {
			dst[i] = x + prevRow[i]
		}
	case 3: // Average
		for i, x := range src {
			var a int
			if i >= bpp {
				a = int(dst[i-bpp])
			}
			b := int(prevRow[i])
			dst[i] = x + byte((a+b)/2)
		}
	case 4: // Paeth
		for i, x := range src {
			var a, c byte
			if i >= bpp {
				a = dst[i-bpp]
				c = prevRow[i-bpp]
			}
			b := prevRow[i]
			dst[i] = x + paeth(a, b, c)
		}
	default:
		return fmt.Errorf("png: %w: %d", ErrInvalidFilter, filterType)
	}
	return nil
}

// paeth is the PNG filter-type-4 predictor: picks whichever of a (left),
// b (up), c (up-left) is closest to p = a + b - c, ties broken a, b, c.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
