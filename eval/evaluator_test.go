package eval

import (
	"testing"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/comb"
)

// bruteForceMUCount exhaustively counts MU formulas for small (v,k,c) by
// evaluating every c-subset of the catalog directly, independent of the
// ranker/dispatcher machinery, as a reference for Evaluate itself.
func bruteForceMUCount(t *testing.T, cat *catalog.Catalog, c int) uint64 {
	rk := comb.NewRanker(cat.T, c)
	total := rk.Count(cat.T, c)
	var sum uint64
	for idx := uint64(0); idx < total; idx++ {
		tuple := rk.Unrank(idx, cat.T, c)
		res := EvaluateCandidate(cat, tuple, ModeMU)
		if res.MU {
			sum += res.Contribution
		}
	}
	return sum
}

func TestKnownMUCounts2SAT(t *testing.T) {
	cases := []struct {
		v, c int
		want uint64
	}{
		{2, 4, 1},
		{3, 5, 36},
		{3, 6, 4},
		{4, 6, 1008},
	}
	for _, tc := range cases {
		cat, err := catalog.Build(tc.v, 2)
		if err != nil {
			t.Fatalf("Build(%d,2): %v", tc.v, err)
		}
		got := bruteForceMUCount(t, cat, tc.c)
		if got != tc.want {
			t.Errorf("MU(v=%d,k=2,c=%d) = %d, want %d", tc.v, tc.c, got, tc.want)
		}
	}
}

func TestKnownMUCount3SAT(t *testing.T) {
	cat, err := catalog.Build(3, 3)
	if err != nil {
		t.Fatalf("Build(3,3): %v", err)
	}
	got := bruteForceMUCount(t, cat, 8)
	if got != 1 {
		t.Errorf("MU(v=3,k=3,c=8) = %d, want 1", got)
	}
}

func TestEvaluateFromMatchesFullScan(t *testing.T) {
	cat, err := catalog.Build(4, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := 10
	rk := comb.NewRanker(cat.T, c)
	total := rk.Count(cat.T, c)
	p := 2
	checked := 0
	for idx := uint64(0); idx < total && checked < 500; idx++ {
		tuple := rk.Unrank(idx, cat.T, c)
		full := EvaluateCandidate(cat, tuple, ModeMU)

		prefix := NewState(cat.W)
		for _, clause := range tuple[:p] {
			prefix.Fold(cat, clause)
		}
		viaPrefix := EvaluateFrom(cat, prefix, tuple[:p], tuple[p:], ModeMU)

		if full.MU != viaPrefix.MU || full.Contribution != viaPrefix.Contribution {
			t.Fatalf("tuple %v: full=%+v prefix-split=%+v", tuple, full, viaPrefix)
		}
		checked++
	}
}

func TestParityOfUnbalancedCount(t *testing.T) {
	cat, err := catalog.Build(4, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := 6
	rk := comb.NewRanker(cat.T, c)
	total := rk.Count(cat.T, c)
	for idx := uint64(0); idx < total; idx++ {
		tuple := rk.Unrank(idx, cat.T, c)
		res := EvaluateCandidate(cat, tuple, ModeMU)
		if !res.MU {
			continue
		}
		// Contribution is 2^(v-s); u = v-s must be even (structural parity
		// property of 2/3-CNF orbits).
		u := 0
		for p := res.Contribution; p > 1; p >>= 1 {
			u++
		}
		if u%2 != 0 {
			t.Errorf("tuple %v: unbalanced count %d is odd", tuple, u)
		}
	}
}
