// Package pixel holds the dense RGB pixel buffer handed off between the
// PNG decoder and the JPEG encoder.
package pixel

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is the sentinel for an out-of-bounds pixel access.
var ErrOutOfRange = errors.New("pixel: out of range")

// Pixel is a single 8-bit RGB triple. No alpha is retained.
type Pixel struct {
	R, G, B uint8
}

// Image is a width x height row-major buffer of Pixels.
//
// Invariant: len(Pixels) == W*H.
type Image struct {
	W, H   uint32
	Pixels []Pixel
}

// New allocates a zeroed image of the given dimensions.
func New(w, h uint32) *Image {
	return &Image{W: w, H: h, Pixels: make([]Pixel, int(w)*int(h))}
}

// At returns the pixel at (x, y), or an error if out of range.
func (img *Image) At(x, y uint32) (Pixel, error) {
	if x >= img.W || y >= img.H {
		return Pixel{}, fmt.Errorf("pixel: out of range access (%d,%d) in %dx%d image: %w", x, y, img.W, img.H, ErrOutOfRange)
	}
	return img.Pixels[int(y)*int(img.W)+int(x)], nil
}

// Set writes the pixel at (x, y), or returns an error if out of range.
func (img *Image) Set(x, y uint32, p Pixel) error {
	if x >= img.W || y >= img.H {
		return fmt.Errorf("pixel: out of range access (%d,%d) in %dx%d image: %w", x, y, img.W, img.H, ErrOutOfRange)
	}
	img.Pixels[int(y)*int(img.W)+int(x)] = p
	return nil
}

// AtClamped returns the pixel at (x, y), clamping both coordinates to the
// valid range. Used by the JPEG encoder's edge-padded block iteration.
func (img *Image) AtClamped(x, y int) Pixel {
	if x < 0 {
		x = 0
	}
	if x >= int(img.W) {
		x = int(img.W) - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= int(img.H) {
		y = int(img.H) - 1
	}
	return img.Pixels[y*int(img.W)+x]
}
