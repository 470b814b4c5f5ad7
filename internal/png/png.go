// Package png implements a from-scratch decoder for the PNG subset this
// transcoder supports: 8-bit depth, non-interlaced, color types 0/2/4/6.
package png

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/you/pngjpeg/internal/deflate"
	"github.com/you/pngjpeg/pixel"
)

var (
	// ErrBadSignature is returned when the 8-byte PNG magic doesn't match.
	ErrBadSignature = errors.New("png: bad signature")
	// ErrUnsupportedInterlace is returned for interlace methods other than 0.
	ErrUnsupportedInterlace = errors.New("png: unsupported interlace method")
	// ErrUnsupportedDepth is returned for bit depths other than 8.
	ErrUnsupportedDepth = errors.New("png: unsupported bit depth")
	// ErrUnsupportedColorType is returned for color types outside {0,2,4,6}.
	ErrUnsupportedColorType = errors.New("png: unsupported color type")
	// ErrInvalidFilter is returned for a scanline filter byte outside 0..4.
	ErrInvalidFilter = errors.New("png: invalid filter type")
	// ErrTruncated is returned when the chunk walk runs past the input.
	ErrTruncated = errors.New("png: truncated")
)

var signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// IHDR is the parsed PNG header chunk.
type IHDR struct {
	Width, Height                               uint32
	BitDepth, ColorType                         uint8
	CompressionMethod, FilterMethod, Interlace uint8
}

// bytesPerPixel returns the filter unit for ihdr's color type, per spec.md
// §4.4 step 5 (bit depth 8 is the only supported depth).
func (h IHDR) bytesPerPixel() (int, error) {
	switch h.ColorType {
	case 0:
		return 1, nil
	case 2:
		return 3, nil
	case 4:
		return 2, nil
	case 6:
		return 4, nil
	default:
		return 0, fmt.Errorf("png: %w: %d", ErrUnsupportedColorType, h.ColorType)
	}
}

// chunk is one length-prefixed PNG chunk (CRC is read but not validated,
// per spec.md's tolerant-by-default requirement).
type chunk struct {
	typ  [4]byte
	data []byte
}

func walkChunks(data []byte) ([]chunk, error) {
	if len(data) < 8 || [8]byte(data[:8]) != signature {
		return nil, fmt.Errorf("png: %w", ErrBadSignature)
	}
	var chunks []chunk
	pos := 8
	for {
		if pos+8 > len(data) {
			return nil, fmt.Errorf("png: %w: chunk header", ErrTruncated)
		}
		length := binary.BigEndian.Uint32(data[pos : pos+4])
		var typ [4]byte
		copy(typ[:], data[pos+4:pos+8])
		pos += 8
		if pos+int(length)+4 > len(data) {
			return nil, fmt.Errorf("png: %w: chunk %q data/CRC", ErrTruncated, typ)
		}
		chunkData := data[pos : pos+int(length)]
		pos += int(length)
		pos += 4 // CRC, unvalidated

		chunks = append(chunks, chunk{typ: typ, data: chunkData})
		if string(typ[:]) == "IEND" {
			break
		}
	}
	return chunks, nil
}

func parseIHDR(data []byte) (IHDR, error) {
	if len(data) < 13 {
		return IHDR{}, fmt.Errorf("png: %w: IHDR too short", ErrTruncated)
	}
	h := IHDR{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         data[9],
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		Interlace:         data[12],
	}
	if h.Interlace != 0 {
		return IHDR{}, fmt.Errorf("png: %w", ErrUnsupportedInterlace)
	}
	if h.BitDepth != 8 {
		return IHDR{}, fmt.Errorf("png: %w: %d", ErrUnsupportedDepth, h.BitDepth)
	}
	switch h.ColorType {
	case 0, 2, 4, 6:
	default:
		return IHDR{}, fmt.Errorf("png: %w: %d", ErrUnsupportedColorType, h.ColorType)
	}
	return h, nil
}

// Decode parses a full PNG file, decompresses its IDAT stream, unfilters
// every scanline, and projects the result into an RGB pixel.Image.
func Decode(data []byte) (*pixel.Image, error) {
	img, _, err := decode(data, false)
	return img, err
}

// ChunkInfo summarizes one chunk seen during the chunk walk, for --verbose
// diagnostics (spec.md §6.4).
type ChunkInfo struct {
	Type   string
	Length int
}

// Trace carries the diagnostics DecodeTrace collects along the way, for the
// CLI's --verbose output.
type Trace struct {
	Chunks     []ChunkInfo
	IHDR       IHDR
	BlockTypes []int // DEFLATE block types decoded, in order (0/1/2)
}

// DecodeTrace behaves like Decode but also returns a Trace describing the
// chunks walked, the parsed header, and the DEFLATE block sequence.
func DecodeTrace(data []byte) (*pixel.Image, *Trace, error) {
	return decode(data, true)
}

func decode(data []byte, wantTrace bool) (*pixel.Image, *Trace, error) {
	chunks, err := walkChunks(data)
	if err != nil {
		return nil, nil, err
	}
	if len(chunks) == 0 || string(chunks[0].typ[:]) != "IHDR" {
		return nil, nil, fmt.Errorf("png: first chunk is not IHDR")
	}
	ihdr, err := parseIHDR(chunks[0].data)
	if err != nil {
		return nil, nil, err
	}
	bpp, err := ihdr.bytesPerPixel()
	if err != nil {
		return nil, nil, err
	}

	var trace *Trace
	if wantTrace {
		trace = &Trace{IHDR: ihdr}
		for _, c := range chunks {
			trace.Chunks = append(trace.Chunks, ChunkInfo{Type: string(c.typ[:]), Length: len(c.data)})
		}
	}

	var idat []byte
	for _, c := range chunks[1:] {
		switch string(c.typ[:]) {
		case "IDAT":
			idat = append(idat, c.data...)
		case "IEND":
			// handled by walkChunks loop termination
		default:
			// unknown/unsupported ancillary chunk: skipped
		}
	}

	stride := int(ihdr.Width) * bpp
	wantLen := int(ihdr.Height) * (1 + stride)

	var raw []byte
	if wantTrace {
		raw, trace.BlockTypes, err = deflate.DecompressTrace(idat)
	} else {
		raw, err = deflate.Decompress(idat)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("png: decompressing IDAT: %w", err)
	}
	if len(raw) < wantLen {
		return nil, nil, fmt.Errorf("png: %w: decompressed %d bytes, want %d", ErrTruncated, len(raw), wantLen)
	}

	unfiltered, err := unfilter(raw, int(ihdr.Height), stride, bpp)
	if err != nil {
		return nil, nil, err
	}

	img, err := toImage(unfiltered, ihdr, stride, bpp)
	if err != nil {
		return nil, nil, err
	}
	return img, trace, nil
}

func toImage(unfiltered []byte, h IHDR, stride, bpp int) (*pixel.Image, error) {
	img := pixel.New(h.Width, h.Height)
	for y := 0; y < int(h.Height); y++ {
		row := unfiltered[y*stride : (y+1)*stride]
		for x := 0; x < int(h.Width); x++ {
			off := x * bpp
			var p pixel.Pixel
			switch h.ColorType {
			case 0: // grayscale
				g := row[off]
				p = pixel.Pixel{R: g, G: g, B: g}
			case 4: // grayscale + alpha (alpha discarded)
				g := row[off]
				p = pixel.Pixel{R: g, G: g, B: g}
			case 2: // RGB
				p = pixel.Pixel{R: row[off], G: row[off+1], B: row[off+2]}
			case 6: // RGBA (alpha discarded)
				p = pixel.Pixel{R: row[off], G: row[off+1], B: row[off+2]}
			}
			if err := img.Set(uint32(x), uint32(y), p); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}
