package jpegenc

import "github.com/you/pngjpeg/internal/huffman"

// category returns the number of bits required to represent |v|, with
// category(0) == 0, per spec.md §4.5.5 / §8 property 8.
func category(v int) uint8 {
	if v < 0 {
		v = -v
	}
	var cat uint8
	for v > 0 {
		cat++
		v >>= 1
	}
	return cat
}

// magnitudeBits returns the cat low bits written after a DC/AC Huffman
// code: the low cat bits of v if v > 0, or of v-1 if v < 0 (one's
// complement of |v| in cat bits), per spec.md §4.5.5 and §9.
func magnitudeBits(v int, cat uint8) uint32 {
	if v < 0 {
		v = v - 1
	}
	return uint32(v) & ((1 << cat) - 1)
}

// component holds the per-component entropy-coder state: the Huffman
// encode tables and the running DC predictor (spec.md §4.5.7).
type component struct {
	dcTable *huffman.EncodeTable
	acTable *huffman.EncodeTable
	prevDC  int
}

func (c *component) reset() { c.prevDC = 0 }

// bitSink is the minimal interface the entropy coder needs from the bit
// writer: emit n bits, MSB-first, with JPEG byte stuffing.
type bitSink interface {
	WriteBits(bits uint32, n uint8)
}

// encodeBlock writes one 8x8 block's DC and AC coefficients (already in
// zig-zag scan order) to w, updating c.prevDC.
func encodeBlock(w bitSink, c *component, coeffs [64]int) {
	dcDiff := coeffs[0] - c.prevDC
	c.prevDC = coeffs[0]

	cat := category(dcDiff)
	size, code := c.dcTable.Size[cat], c.dcTable.Code[cat]
	w.WriteBits(uint32(code), size)
	if cat > 0 {
		w.WriteBits(magnitudeBits(dcDiff, cat), cat)
	}

	zeros := 0
	for i := 1; i < 64; i++ {
		v := coeffs[i]
		if v == 0 {
			zeros++
			continue
		}
		for zeros >= 16 {
			emitSymbol(w, c.acTable, 0xF0)
			zeros -= 16
		}
		acCat := category(v)
		sym := uint8(zeros<<4) | acCat
		emitSymbol(w, c.acTable, sym)
		w.WriteBits(magnitudeBits(v, acCat), acCat)
		zeros = 0
	}
	if zeros > 0 {
		emitSymbol(w, c.acTable, 0x00)
	}
}

func emitSymbol(w bitSink, t *huffman.EncodeTable, sym uint8) {
	w.WriteBits(uint32(t.Code[sym]), t.Size[sym])
}
