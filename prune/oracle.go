// Package prune implements the pruning oracle: a cheap, necessary-only
// filter for 3-SAT candidates that rejects any tuple that does not cover a
// handful of globally hard-to-cover assignments, before the (more
// expensive) full UNSAT test ever runs. It is disabled for 2-SAT, where
// its overhead exceeds its benefit.
package prune

import "github.com/satlab/minunsat/catalog"

// MaxGroups caps how many hard assignments are
// selected as independent coverage probes.
const MaxGroups = 8

// OverlapThreshold is the named constant for the 80% near-independence
// heuristic: after picking an assignment, any other assignment whose
// covering-clause set overlaps it by more than this fraction (of its own
// cover size) is excluded from future selection.
const OverlapThreshold = 0.8

// FullCoverage is the byte value a clause's group-coverage byte has once
// every live group bit, plus every unused group bit in [G,8), is set.
const FullCoverage byte = 0xFF

// Stats records the oracle's construction outcome, useful for regression
// tracking of the empirical skip rate (typically 28-88%).
type Stats struct {
	GroupsSelected int
	SkippedBuild   bool // true if the oracle could not select any group
}

// Build selects up to MaxGroups near-independent hard assignments over cat
// and populates cat.Groups with the per-clause coverage byte. If no
// assignment can be selected it reports SkippedBuild, and every clause's
// byte is FullCoverage, so Passes accepts every tuple.
func Build(cat *catalog.Catalog) Stats {
	numAssignments := cat.NumAssignments()
	cov := make([]int, numAssignments)
	coverSet := make([]map[int]bool, numAssignments)
	for a := 0; a < numAssignments; a++ {
		coverSet[a] = make(map[int]bool)
	}
	for c := 0; c < cat.T; c++ {
		base := c * cat.W
		for a := 0; a < numAssignments; a++ {
			word := a / 64
			bit := uint(a % 64)
			if cat.F[base+word]&(1<<bit) != 0 {
				cov[a]++
				coverSet[a][c] = true
			}
		}
	}

	used := make([]bool, numAssignments)
	var selected []int
	for len(selected) < MaxGroups {
		best := -1
		for a := 0; a < numAssignments; a++ {
			if used[a] {
				continue
			}
			if best == -1 || cov[a] < cov[best] {
				best = a
			}
		}
		if best == -1 {
			break
		}
		selected = append(selected, best)
		used[best] = true
		markOverlapping(coverSet, used, best)
	}

	cat.Groups = make([]byte, cat.T)
	for c := 0; c < cat.T; c++ {
		var b byte
		for g, a := range selected {
			if coverSet[a][c] {
				b |= 1 << uint(g)
			}
		}
		for g := len(selected); g < 8; g++ {
			b |= 1 << uint(g)
		}
		cat.Groups[c] = b
	}

	return Stats{GroupsSelected: len(selected), SkippedBuild: len(selected) == 0}
}

// markOverlapping marks every unused assignment whose covering-clause set
// overlaps picked's by more than OverlapThreshold of its own size as used,
// promoting near-independence among future selections.
func markOverlapping(coverSet []map[int]bool, used []bool, picked int) {
	pickedSet := coverSet[picked]
	for a := range coverSet {
		if used[a] {
			continue
		}
		set := coverSet[a]
		if len(set) == 0 {
			continue
		}
		overlap := 0
		for c := range set {
			if pickedSet[c] {
				overlap++
			}
		}
		if float64(overlap)/float64(len(set)) > OverlapThreshold {
			used[a] = true
		}
	}
}

// Passes reports whether the OR of the candidate clauses' group-coverage
// bytes is full coverage — a necessary (not sufficient) condition for the
// candidate to be UNSAT. Passes must be called before the evaluator's more
// expensive UNSAT test to realize the oracle's speedup.
func Passes(cat *catalog.Catalog, tuple []int) bool {
	var b byte
	for _, c := range tuple {
		b |= cat.Groups[c]
		if b == FullCoverage {
			return true
		}
	}
	return b == FullCoverage
}
