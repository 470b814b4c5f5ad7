package jpegenc

import "github.com/you/pngjpeg/pixel"

// ycc holds one pixel's color-converted, level-shifted samples, ready for
// the forward DCT (spec.md §4.5.1).
type ycc struct {
	y, cb, cr float64
}

func rgbToYCbCr(p pixel.Pixel) ycc {
	r, g, b := float64(p.R), float64(p.G), float64(p.B)
	y := 0.299*r + 0.587*g + 0.114*b
	cb := -0.168736*r - 0.331264*g + 0.5*b + 128
	cr := 0.5*r - 0.418688*g - 0.081312*b + 128
	return ycc{y: y - 128, cb: cb - 128, cr: cr - 128}
}
