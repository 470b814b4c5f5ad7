// Package deflate implements a from-scratch zlib-wrapped DEFLATE
// decompressor: stored/fixed/dynamic block dispatch and LZ77
// length-distance expansion, per RFC 1950/1951.
package deflate

import (
	"errors"
	"fmt"

	"github.com/you/pngjpeg/internal/bitio"
	"github.com/you/pngjpeg/internal/huffman"
)

// ErrTruncated is returned when the bitstream ends before a block finishes.
var ErrTruncated = bitio.ErrTruncated

// ErrInvalidBlock is returned for BTYPE=11 or a malformed dynamic header.
var ErrInvalidBlock = errors.New("deflate: invalid block")

// ErrInvalidCode is returned when a Huffman decode fails to match any symbol.
var ErrInvalidCode = huffman.ErrInvalidCode

// Decompress inflates a zlib-wrapped DEFLATE stream. The 2-byte zlib header
// and trailing 4-byte Adler-32 are skipped unverified, matching the
// tolerant default behavior this codec's original implementation has.
func Decompress(zlibData []byte) ([]byte, error) {
	out, _, err := decompress(zlibData, nil)
	return out, err
}

// DecompressTrace behaves like Decompress but also returns the sequence of
// block types decoded (0=stored, 1=fixed Huffman, 2=dynamic Huffman), for
// the CLI's --verbose diagnostics.
func DecompressTrace(zlibData []byte) ([]byte, []int, error) {
	return decompress(zlibData, []int{})
}

func decompress(zlibData []byte, trace []int) ([]byte, []int, error) {
	if len(zlibData) < 6 {
		return nil, nil, fmt.Errorf("deflate: %w: zlib stream too short", ErrTruncated)
	}
	// CMF, FLG (2 bytes) ... Adler-32 (trailing 4 bytes), both unverified.
	payload := zlibData[2 : len(zlibData)-4]

	r := bitio.NewReader(payload)
	var out []byte

	for {
		bfinal, err := r.ReadBits(1)
		if err != nil {
			return nil, nil, fmt.Errorf("deflate: reading BFINAL: %w", err)
		}
		btype, err := r.ReadBits(2)
		if err != nil {
			return nil, nil, fmt.Errorf("deflate: reading BTYPE: %w", err)
		}
		if trace != nil {
			trace = append(trace, int(btype))
		}

		switch btype {
		case 0:
			out, err = decodeStored(r, out)
		case 1:
			out, err = decodeHuffmanBlock(r, out, fixedLitTable(), fixedDistTable())
		case 2:
			out, err = decodeDynamicBlock(r, out)
		default:
			return nil, nil, fmt.Errorf("deflate: BTYPE=3: %w", ErrInvalidBlock)
		}
		if err != nil {
			return nil, nil, err
		}

		if bfinal == 1 {
			break
		}
	}
	return out, trace, nil
}

var (
	cachedFixedLit  *huffman.Table
	cachedFixedDist *huffman.Table
)

func fixedLitTable() *huffman.Table {
	if cachedFixedLit == nil {
		t, err := huffman.Build(fixedLitLengths())
		if err != nil {
			panic(err) // fixed table is a compile-time constant; cannot fail
		}
		cachedFixedLit = t
	}
	return cachedFixedLit
}

func fixedDistTable() *huffman.Table {
	if cachedFixedDist == nil {
		t, err := huffman.Build(fixedDistLengths())
		if err != nil {
			panic(err)
		}
		cachedFixedDist = t
	}
	return cachedFixedDist
}

func decodeStored(r *bitio.Reader, out []byte) ([]byte, error) {
	r.AlignToByte()
	lenBytes, err := r.ReadAlignedBytes(2)
	if err != nil {
		return nil, fmt.Errorf("deflate: reading stored LEN: %w", err)
	}
	length := int(lenBytes[0]) | int(lenBytes[1])<<8
	if _, err := r.ReadAlignedBytes(2); err != nil { // NLEN, discarded
		return nil, fmt.Errorf("deflate: reading stored NLEN: %w", err)
	}
	data, err := r.ReadAlignedBytes(length)
	if err != nil {
		return nil, fmt.Errorf("deflate: reading stored data: %w", err)
	}
	return append(out, data...), nil
}

func decodeHuffmanBlock(r *bitio.Reader, out []byte, litTable, distTable *huffman.Table) ([]byte, error) {
	for {
		sym, err := huffman.Decode(litTable, r)
		if err != nil {
			return nil, fmt.Errorf("deflate: literal/length symbol: %w", err)
		}
		switch {
		case sym < 256:
			out = append(out, byte(sym))
		case sym == 256:
			return out, nil
		case sym >= 257 && sym <= 285:
			i := sym - 257
			extra, err := r.ReadBits(lengthExtra[i])
			if err != nil {
				return nil, fmt.Errorf("deflate: length extra bits: %w", err)
			}
			length := lengthBase[i] + int(extra)

			distSym, err := huffman.Decode(distTable, r)
			if err != nil {
				return nil, fmt.Errorf("deflate: distance symbol: %w", err)
			}
			if distSym < 0 || distSym >= len(distBase) {
				return nil, fmt.Errorf("deflate: %w: distance symbol %d", ErrInvalidCode, distSym)
			}
			distExtraBits, err := r.ReadBits(distExtra[distSym])
			if err != nil {
				return nil, fmt.Errorf("deflate: distance extra bits: %w", err)
			}
			distance := distBase[distSym] + int(distExtraBits)

			if distance > len(out) {
				return nil, fmt.Errorf("deflate: distance %d exceeds output length %d", distance, len(out))
			}
			start := len(out) - distance
			for k := 0; k < length; k++ {
				out = append(out, out[start+k])
			}
		default:
			return nil, fmt.Errorf("deflate: %w: symbol %d out of range", ErrInvalidCode, sym)
		}
	}
}

func decodeDynamicBlock(r *bitio.Reader, out []byte) ([]byte, error) {
	hlit, err := r.ReadBits(5)
	if err != nil {
		return nil, fmt.Errorf("deflate: HLIT: %w", err)
	}
	hdist, err := r.ReadBits(5)
	if err != nil {
		return nil, fmt.Errorf("deflate: HDIST: %w", err)
	}
	hclen, err := r.ReadBits(4)
	if err != nil {
		return nil, fmt.Errorf("deflate: HCLEN: %w", err)
	}
	nLit := int(hlit) + 257
	nDist := int(hdist) + 1
	nClen := int(hclen) + 4

	var clLengths [19]uint8
	for i := 0; i < nClen; i++ {
		v, err := r.ReadBits(3)
		if err != nil {
			return nil, fmt.Errorf("deflate: code-length code %d: %w", i, err)
		}
		clLengths[codeLengthOrder[i]] = uint8(v)
	}
	clTable, err := huffman.Build(clLengths[:])
	if err != nil {
		return nil, fmt.Errorf("deflate: building code-length table: %w", err)
	}

	total := nLit + nDist
	lengths := make([]uint8, 0, total)
	for len(lengths) < total {
		sym, err := huffman.Decode(clTable, r)
		if err != nil {
			return nil, fmt.Errorf("deflate: code-length symbol: %w", err)
		}
		switch {
		case sym <= 15:
			lengths = append(lengths, uint8(sym))
		case sym == 16:
			if len(lengths) == 0 {
				return nil, fmt.Errorf("deflate: %w: repeat code 16 at position 0", ErrInvalidBlock)
			}
			n, err := r.ReadBits(2)
			if err != nil {
				return nil, fmt.Errorf("deflate: repeat-16 count: %w", err)
			}
			prev := lengths[len(lengths)-1]
			for i := 0; i < int(n)+3; i++ {
				lengths = append(lengths, prev)
			}
		case sym == 17:
			n, err := r.ReadBits(3)
			if err != nil {
				return nil, fmt.Errorf("deflate: repeat-17 count: %w", err)
			}
			for i := 0; i < int(n)+3; i++ {
				lengths = append(lengths, 0)
			}
		case sym == 18:
			n, err := r.ReadBits(7)
			if err != nil {
				return nil, fmt.Errorf("deflate: repeat-18 count: %w", err)
			}
			for i := 0; i < int(n)+11; i++ {
				lengths = append(lengths, 0)
			}
		default:
			return nil, fmt.Errorf("deflate: %w: bad code-length symbol %d", ErrInvalidBlock, sym)
		}
	}
	if len(lengths) != total {
		return nil, fmt.Errorf("deflate: %w: code-length overshoot", ErrInvalidBlock)
	}

	litTable, err := huffman.Build(lengths[:nLit])
	if err != nil {
		return nil, fmt.Errorf("deflate: building literal/length table: %w", err)
	}
	distTable, err := huffman.Build(lengths[nLit:])
	if err != nil {
		return nil, fmt.Errorf("deflate: building distance table: %w", err)
	}
	return decodeHuffmanBlock(r, out, litTable, distTable)
}
