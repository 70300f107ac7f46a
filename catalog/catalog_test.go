package catalog

import "testing"

func popcountWords(words []uint64) int {
	n := 0
	for _, w := range words {
		for w != 0 {
			n += int(w & 1)
			w >>= 1
		}
	}
	return n
}

func TestBuildRejectsOutOfRange(t *testing.T) {
	cases := []struct{ v, k int }{
		{v: 1, k: 2},
		{v: 11, k: 2},
		{v: 4, k: 4},
		{v: 2, k: 3},
	}
	for _, c := range cases {
		if _, err := Build(c.v, c.k); err == nil {
			t.Errorf("Build(%d,%d) expected ConfigError, got nil", c.v, c.k)
		}
	}
}

func TestClauseCount(t *testing.T) {
	cases := []struct {
		v, k, want int
	}{
		{3, 2, 12},  // C(3,2)*4 = 12
		{4, 2, 24},  // C(4,2)*4 = 24
		{3, 3, 8},   // C(3,3)*8 = 8
		{5, 3, 80},  // C(5,3)*8 = 80
	}
	for _, c := range cases {
		cat, err := Build(c.v, c.k)
		if err != nil {
			t.Fatalf("Build(%d,%d): %v", c.v, c.k, err)
		}
		if cat.T != c.want {
			t.Errorf("Build(%d,%d).T = %d, want %d", c.v, c.k, cat.T, c.want)
		}
	}
}

func TestFalsificationPopcount(t *testing.T) {
	for _, tc := range []struct{ v, k int }{{4, 2}, {5, 3}, {7, 2}, {7, 3}} {
		cat, err := Build(tc.v, tc.k)
		if err != nil {
			t.Fatalf("Build(%d,%d): %v", tc.v, tc.k, err)
		}
		want := 1 << uint(tc.v-tc.k)
		for c := 0; c < cat.T; c++ {
			got := popcountWords(cat.F[c*cat.W : c*cat.W+cat.W])
			if got != want {
				t.Errorf("v=%d k=%d clause %d: popcount(F)=%d, want %d", tc.v, tc.k, c, got, want)
			}
		}
	}
}

func TestVarMaskPopcount(t *testing.T) {
	cat, err := Build(5, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for c := 0; c < cat.T; c++ {
		n := 0
		for i := 0; i < cat.V; i++ {
			if cat.VarMask[c]&(1<<uint(i)) != 0 {
				n++
			}
		}
		if n != cat.K {
			t.Errorf("clause %d: popcount(VarMask)=%d, want %d", c, n, cat.K)
		}
	}
}

func TestPolaritySumMatchesVarMask(t *testing.T) {
	cat, err := Build(5, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for c := 0; c < cat.T; c++ {
		for i := 0; i < cat.V; i++ {
			shift := uint(i) * polarityStride
			p := (cat.PosSum[c] >> shift) & 0x1F
			n := (cat.NegSum[c] >> shift) & 0x1F
			used := cat.VarMask[c]&(1<<uint(i)) != 0
			sum := p + n
			if used && sum != 1 {
				t.Errorf("clause %d var %d: used but pos+neg=%d", c, i, sum)
			}
			if !used && sum != 0 {
				t.Errorf("clause %d var %d: unused but pos+neg=%d", c, i, sum)
			}
		}
	}
}

func TestMultiWordForLargeV(t *testing.T) {
	cat, err := Build(8, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cat.W != 4 { // 2^8 / 64 = 4
		t.Errorf("W = %d, want 4", cat.W)
	}
}
