package huffman

// EncodeTable is a JPEG-style Huffman encode table: for each symbol value,
// the number of bits in its canonical code and the code itself.
type EncodeTable struct {
	Size map[uint8]uint8  // symbol -> code length in bits
	Code map[uint8]uint16 // symbol -> canonical code
}

// BuildEncodeTable constructs per-symbol (size, code) pairs from the JPEG
// spec's two-array table representation: bits[i] is the count of codes of
// length i+1 (for i in 0..15), and values lists the symbols in the order
// codes of increasing length, then ascending position, are assigned to them.
func BuildEncodeTable(bits [16]uint8, values []uint8) *EncodeTable {
	t := &EncodeTable{
		Size: make(map[uint8]uint8, len(values)),
		Code: make(map[uint8]uint16, len(values)),
	}

	// Assign a code length to each value in emission order (Annex C.2).
	sizes := make([]uint8, 0, len(values))
	for length := 1; length <= 16; length++ {
		for i := uint8(0); i < bits[length-1]; i++ {
			sizes = append(sizes, uint8(length))
		}
	}

	code := uint16(0)
	si := sizes[0]
	codes := make([]uint16, len(sizes))
	for k := range sizes {
		for sizes[k] != si {
			code <<= 1
			si++
		}
		codes[k] = code
		code++
	}

	for i, v := range values {
		t.Size[v] = sizes[i]
		t.Code[v] = codes[i]
	}
	return t
}
