package prune

import (
	"testing"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/comb"
	"github.com/satlab/minunsat/eval"
)

func TestPassesIsNecessaryNotSufficient(t *testing.T) {
	cat, err := catalog.Build(4, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	stats := Build(cat)
	if stats.SkippedBuild {
		t.Fatalf("oracle failed to select any group")
	}

	c := 10
	rk := comb.NewRanker(cat.T, c)
	total := rk.Count(cat.T, c)
	checked := 0
	for idx := uint64(0); idx < total && checked < 2000; idx++ {
		tuple := rk.Unrank(idx, cat.T, c)
		res := eval.EvaluateCandidate(cat, tuple, eval.ModeMU)
		if res.MU && !Passes(cat, tuple) {
			t.Fatalf("tuple %v is MU but oracle rejected it (soundness violated)", tuple)
		}
		checked++
	}
}

func TestFullCoverageConstantIndependentOfGroupCount(t *testing.T) {
	cat, err := catalog.Build(3, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	stats := Build(cat)
	var union byte
	for c := 0; c < cat.T; c++ {
		if cat.Groups[c]&0xFF == 0 {
			t.Errorf("clause %d has empty group-coverage byte", c)
		}
		// Bits [GroupsSelected, 8) are padding and must always be set.
		for g := stats.GroupsSelected; g < 8; g++ {
			if cat.Groups[c]&(1<<uint(g)) == 0 {
				t.Errorf("clause %d: unused group bit %d not set", c, g)
			}
		}
		union |= cat.Groups[c]
	}
	if union != FullCoverage {
		t.Errorf("OR of all group bytes = %#x, want FullCoverage %#x", union, FullCoverage)
	}
}
