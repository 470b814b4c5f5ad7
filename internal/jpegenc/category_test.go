package jpegenc

import "testing"

func TestCategory(t *testing.T) {
	cases := []struct {
		v    int
		want uint8
	}{
		{0, 0},
		{1, 1}, {-1, 1},
		{2, 2}, {-2, 2}, {3, 2}, {-3, 2},
		{7, 3}, {-7, 3},
		{2047, 11}, {-2047, 11},
		{2048, 12}, {-2048, 12},
	}
	for _, c := range cases {
		if got := category(c.v); got != c.want {
			t.Fatalf("category(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestCategoryPowersOfTwo(t *testing.T) {
	for k := 0; k < 15; k++ {
		v := 1 << k
		if got := category(v); got != uint8(k+1) {
			t.Fatalf("category(2^%d) = %d, want %d", k, got, k+1)
		}
		vm1 := v - 1
		want := uint8(k)
		if vm1 == 0 {
			want = 0
		}
		if got := category(vm1); got != want {
			t.Fatalf("category(2^%d - 1) = %d, want %d", k, got, want)
		}
	}
}

func TestMagnitudeBitsEquivalence(t *testing.T) {
	// v-1 masked to cat bits must equal the one's-complement form for v<0.
	for v := -300; v < 0; v++ {
		cat := category(v)
		got := magnitudeBits(v, cat)
		want := uint32(v-1) & ((1 << cat) - 1)
		if got != want {
			t.Fatalf("magnitudeBits(%d) = %d, want %d", v, got, want)
		}
	}
}
