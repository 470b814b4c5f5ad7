package jpegenc

import "testing"

func TestScaledQuantTableClamped(t *testing.T) {
	for _, q := range []int{1, 10, 50, 85, 100} {
		table := scaledQuantTable(stdLuminanceQuant, q)
		for i, v := range table {
			if v < 1 || v > 255 {
				t.Fatalf("quality=%d index=%d value=%d out of [1,255]", q, i, v)
			}
		}
	}
}

func TestScaledQuantTableQuality100IsLow(t *testing.T) {
	// At quality 100, scale = 0, so every entry clamps to the minimum, 1.
	table := scaledQuantTable(stdLuminanceQuant, 100)
	for i, v := range table {
		if v != 1 {
			t.Fatalf("quality=100 index=%d value=%d, want 1", i, v)
		}
	}
}

func TestZigZagIsPermutation(t *testing.T) {
	seen := make(map[int]bool)
	for _, k := range zigzag {
		if k < 0 || k > 63 || seen[k] {
			t.Fatalf("zigzag table is not a permutation of 0..63 (k=%d)", k)
		}
		seen[k] = true
	}
}

func TestQuantizeZigZagDCPosition0(t *testing.T) {
	var block [8][8]float64
	block[0][0] = 800
	quant := [64]int{1: 1} // quant[0] left at zero-value guard below
	for i := range quant {
		if quant[i] == 0 {
			quant[i] = 1
		}
	}
	out := quantizeZigZag(block, quant)
	if out[0] != 800 {
		t.Fatalf("DC coefficient at scan position 0 = %d, want 800", out[0])
	}
}
