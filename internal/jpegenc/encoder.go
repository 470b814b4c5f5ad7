// Package jpegenc implements a from-scratch baseline sequential JPEG
// encoder: color transform, forward DCT, quality-scaled quantization,
// zig-zag ordering, DC/AC entropy coding, and segment framing.
package jpegenc

import (
	"bytes"
	"fmt"

	"github.com/you/pngjpeg/internal/bitio"
	"github.com/you/pngjpeg/internal/huffman"
	"github.com/you/pngjpeg/pixel"
)

// Encode transcodes img into a baseline JFIF JPEG at the given quality
// (1..100), per spec.md §4.5.
func Encode(img *pixel.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpegenc: quality %d out of range [1,100]", quality)
	}
	if img.W == 0 || img.H == 0 {
		return nil, fmt.Errorf("jpegenc: empty image %dx%d", img.W, img.H)
	}

	lumaQuant := scaledQuantTable(stdLuminanceQuant, quality)
	chromaQuant := scaledQuantTable(stdChrominanceQuant, quality)

	dcLuma := huffman.BuildEncodeTable(stdDCLumaBits, stdDCLumaValues)
	acLuma := huffman.BuildEncodeTable(stdACLumaBits, stdACLumaValues)
	dcChroma := huffman.BuildEncodeTable(stdDCChromaBits, stdDCChromaValues)
	acChroma := huffman.BuildEncodeTable(stdACChromaBits, stdACChromaValues)

	var buf bytes.Buffer
	writeMarker(&buf, markerSOI)
	writeAPP0(&buf)
	writeDQT(&buf, 0, lumaQuant)
	writeDQT(&buf, 1, chromaQuant)
	writeSOF0(&buf, img.W, img.H)
	writeDHT(&buf, 0, 0, stdDCLumaBits, stdDCLumaValues)
	writeDHT(&buf, 1, 0, stdACLumaBits, stdACLumaValues)
	writeDHT(&buf, 0, 1, stdDCChromaBits, stdDCChromaValues)
	writeDHT(&buf, 1, 1, stdACChromaBits, stdACChromaValues)
	writeSOS(&buf)

	yComp := &component{dcTable: dcLuma, acTable: acLuma}
	cbComp := &component{dcTable: dcChroma, acTable: acChroma}
	crComp := &component{dcTable: dcChroma, acTable: acChroma}

	bw := bitio.NewWriter(&buf)
	blocksX := (int(img.W) + 7) / 8
	blocksY := (int(img.H) + 7) / 8

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			var yBlock, cbBlock, crBlock [8][8]float64
			for row := 0; row < 8; row++ {
				for col := 0; col < 8; col++ {
					px := img.AtClamped(bx*8+col, by*8+row)
					s := rgbToYCbCr(px)
					yBlock[row][col] = s.y
					cbBlock[row][col] = s.cb
					crBlock[row][col] = s.cr
				}
			}

			encodeBlock(bw, yComp, quantizeZigZag(forwardDCT(yBlock), lumaQuant))
			encodeBlock(bw, cbComp, quantizeZigZag(forwardDCT(cbBlock), chromaQuant))
			encodeBlock(bw, crComp, quantizeZigZag(forwardDCT(crBlock), chromaQuant))
		}
	}
	bw.Flush()
	writeMarker(&buf, markerEOI)

	return buf.Bytes(), nil
}
