package huffman

import "testing"

func TestBuildEncodeTableStandardDCLuma(t *testing.T) {
	bits := [16]uint8{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}
	values := []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	tbl := BuildEncodeTable(bits, values)

	// Symbol 0 has the single length-2 code == 0b00.
	if tbl.Size[0] != 2 || tbl.Code[0] != 0b00 {
		t.Fatalf("symbol 0: size=%d code=%b, want size=2 code=00", tbl.Size[0], tbl.Code[0])
	}
	// Symbols 1..5 share length 3, codes 010..110 (ascending).
	wantCodes3 := []uint16{0b010, 0b011, 0b100, 0b101, 0b110}
	for i, sym := range []uint8{1, 2, 3, 4, 5} {
		if tbl.Size[sym] != 3 {
			t.Fatalf("symbol %d: size=%d, want 3", sym, tbl.Size[sym])
		}
		if tbl.Code[sym] != wantCodes3[i] {
			t.Fatalf("symbol %d: code=%b, want %b", sym, tbl.Code[sym], wantCodes3[i])
		}
	}
	// Every symbol present should have a code.
	for _, sym := range values {
		if _, ok := tbl.Size[sym]; !ok {
			t.Fatalf("missing size for symbol %d", sym)
		}
	}
}

func TestBuildEncodeTableAscendingCodes(t *testing.T) {
	// Two symbols of length 1.
	bits := [16]uint8{2}
	values := []uint8{5, 9}
	tbl := BuildEncodeTable(bits, values)
	if tbl.Code[5] != 0 || tbl.Code[9] != 1 {
		t.Fatalf("codes = {5:%b 9:%b}, want {5:0 9:1}", tbl.Code[5], tbl.Code[9])
	}
}
