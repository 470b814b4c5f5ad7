// Package huffman builds and decodes canonical Huffman codes, shared by the
// DEFLATE decompressor and (for encoding) the JPEG entropy coder.
package huffman

import (
	"errors"
	"fmt"
)

// ErrInvalidCode is returned when bits read from the stream do not decode
// to any symbol in the active table before the maximum code length.
var ErrInvalidCode = errors.New("huffman: invalid code")

const maxBits = 15

// Table is a canonical Huffman decode table: for each symbol, its code
// length (0 means unused) and canonical code value.
type Table struct {
	lengths []uint8
	codes   []uint16
	// counts[l] is the number of symbols with length l, for l in 1..maxBits.
	counts [maxBits + 1]int
	// firstCode[l] is the smallest canonical code of length l.
	firstCode [maxBits + 1]uint16
	// firstSymbol[l] is the index, in symbol-ascending order among codes of
	// length l, of the first such symbol's position in symbolsByLen.
	firstSymbol  [maxBits + 1]int
	symbolsByLen []int // symbols grouped by ascending length, then ascending index
	maxLen       int
}

// Build constructs a canonical Huffman decode table from a length vector.
// lengths[i] is the code length of symbol i, in [0, 15]; 0 means unused.
func Build(lengths []uint8) (*Table, error) {
	t := &Table{lengths: append([]uint8(nil), lengths...)}

	var blCount [maxBits + 1]int
	maxLen := 0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if int(l) > maxBits {
			return nil, fmt.Errorf("huffman: code length %d exceeds %d", l, maxBits)
		}
		blCount[l]++
		if int(l) > maxLen {
			maxLen = int(l)
		}
	}
	t.counts = blCount

	if maxLen == 0 {
		return t, nil
	}

	var firstCode [maxBits + 1]uint16
	var code uint16
	for l := 1; l <= maxLen; l++ {
		firstCode[l] = code
		code = (code + uint16(blCount[l])) << 1
	}
	t.firstCode = firstCode

	codes := make([]uint16, len(lengths))
	nc := firstCode
	for i, l := range lengths {
		if l == 0 {
			continue
		}
		codes[i] = nc[l]
		nc[l]++
	}
	t.codes = codes

	// Group symbols by length, ascending length then ascending symbol index,
	// for the length-stratified decode search.
	symbolsByLen := make([]int, 0, len(lengths))
	firstSymbol := [maxBits + 1]int{}
	for l := 1; l <= maxLen; l++ {
		firstSymbol[l] = len(symbolsByLen)
		for i, ll := range lengths {
			if int(ll) == l {
				symbolsByLen = append(symbolsByLen, i)
			}
		}
	}
	t.symbolsByLen = symbolsByLen
	t.firstSymbol = firstSymbol
	t.maxLen = maxLen
	return t, nil
}

func (t *Table) Empty() bool { return t.maxLen == 0 }

// BitReader is the minimal interface huffman decode needs from a bit
// source: read exactly one LSB-first bit.
type BitReader interface {
	ReadBits(n int) (uint32, error)
}

// Decode reads bits one at a time from r, left-shifting an accumulator,
// until the bits read so far match a canonical code in t. It returns the
// decoded symbol index.
func Decode(t *Table, r BitReader) (int, error) {
	if t.Empty() {
		return 0, fmt.Errorf("huffman: %w: empty table", ErrInvalidCode)
	}
	var code uint32
	for l := 1; l <= t.maxLen; l++ {
		bit, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		code = (code << 1) | bit
		count := t.counts[l]
		if count == 0 {
			continue
		}
		first := t.firstCode[l]
		if code >= uint32(first) && code < uint32(first)+uint32(count) {
			idx := t.firstSymbol[l] + int(code-uint32(first))
			return t.symbolsByLen[idx], nil
		}
	}
	return 0, fmt.Errorf("huffman: %w", ErrInvalidCode)
}
