// Package eval implements the candidate evaluator (the MU test) at the
// heart of the engine: given an ascending tuple of clause-type ids, decide
// whether the resulting formula is Minimally Unsatisfiable, and if so,
// return its polarity-orbit contribution to the total count.
//
// The algorithm is a single linear scan over the candidate's clauses that
// folds four running bitsets/sums, then three cheap filters in increasing
// cost order. No clause is ever re-scanned: minimality falls out of the
// same `one`/`two` bitsets the UNSAT test already built.
package eval

import "github.com/satlab/minunsat/catalog"

// State is the folded accumulator produced by scanning a set of clauses.
// A V3 prefix scan produces a partial State that the suffix scan resumes
// from; a flat V2 scan starts from the zero State.
type State struct {
	One, Two []uint64 // W words each
	VarCov   uint32
	PosSum   uint64
	NegSum   uint64
}

// NewState returns the zero-valued fold state for a catalog of width W.
func NewState(w int) State {
	return State{One: make([]uint64, w), Two: make([]uint64, w)}
}

// Clone returns an independent copy of s, so a prefix State can be reused
// as the starting point of many independent suffix scans.
func (s State) Clone() State {
	return State{
		One:    append([]uint64(nil), s.One...),
		Two:    append([]uint64(nil), s.Two...),
		VarCov: s.VarCov,
		PosSum: s.PosSum,
		NegSum: s.NegSum,
	}
}

// Fold accumulates clause c from cat into s in place: two |= one & F[c];
// one |= F[c]; varCov |= V[c]; posSum += P+[c]; negSum += P-[c].
func (s *State) Fold(cat *catalog.Catalog, clause int) {
	base := clause * cat.W
	for i := 0; i < cat.W; i++ {
		f := cat.F[base+i]
		s.Two[i] |= s.One[i] & f
		s.One[i] |= f
	}
	s.VarCov |= cat.VarMask[clause]
	s.PosSum += cat.PosSum[clause]
	s.NegSum += cat.NegSum[clause]
}

// Result is the outcome of evaluating one candidate. MU reports whether the
// candidate satisfies whichever predicate Mode selected — despite the
// field's name, under ModeUnsatOnly it means "UNSAT", not "minimally
// unsatisfiable".
type Result struct {
	MU           bool
	Contribution uint64
}

// Mode selects which predicate finish checks a folded candidate against.
type Mode int

const (
	// ModeMU requires minimality and all-variables-used: every clause must
	// uniquely falsify some assignment, and every variable must appear.
	// This is the zero value, matching the algorithm's original behavior.
	ModeMU Mode = iota
	// ModeUnsatOnly drops both checks, accepting any candidate whose
	// clauses together falsify every assignment, regardless of redundant
	// clauses or unused variables.
	ModeUnsatOnly
)

// Evaluate scans every clause in tuple starting from a zero state and
// decides candidacy with a single-pass algorithm: fold, then filter by
// variable coverage, then by assignment coverage (UNSAT), then by
// minimality (unique coverage), then by canonicality (orbit weight).
func Evaluate(cat *catalog.Catalog, tuple []int, mode Mode) Result {
	return EvaluateFrom(cat, NewState(cat.W), nil, tuple, mode)
}

// EvaluateFrom scans suffix starting from a pre-folded prefix state (the V3
// hybrid's prefix clauses). prefixClauses must be the same clause ids that
// folded prefix into being, because minimality must be checked over the
// full candidate — prefix and suffix alike — not just the newly scanned
// suffix clauses.
func EvaluateFrom(cat *catalog.Catalog, prefix State, prefixClauses, suffix []int, mode Mode) Result {
	s := prefix.Clone()
	for _, c := range suffix {
		s.Fold(cat, c)
	}
	all := make([]int, 0, len(prefixClauses)+len(suffix))
	all = append(all, prefixClauses...)
	all = append(all, suffix...)
	return finish(cat, s, all, mode)
}

// EvaluateCandidate is the full-tuple form used by V2: allClauses is the
// complete ascending candidate tuple (no separate prefix).
func EvaluateCandidate(cat *catalog.Catalog, allClauses []int, mode Mode) Result {
	s := NewState(cat.W)
	for _, c := range allClauses {
		s.Fold(cat, c)
	}
	return finish(cat, s, allClauses, mode)
}

// finish applies the filter/minimality/canonicality stages to a fully
// folded state, checking minimality against every clause in allClauses
// (prefix and suffix alike, for V3 callers). Under ModeUnsatOnly the
// variable-coverage and minimality stages are skipped entirely: only
// assignment coverage (UNSAT) and canonicality still apply.
func finish(cat *catalog.Catalog, s State, allClauses []int, mode Mode) Result {
	if mode == ModeMU {
		allVars := cat.AllVarsMask()
		if s.VarCov != allVars {
			return Result{}
		}
	}
	if !allOnesWords(s.One, cat) {
		return Result{}
	}

	if mode == ModeMU {
		unique := make([]uint64, cat.W)
		for i := 0; i < cat.W; i++ {
			unique[i] = s.One[i] &^ s.Two[i]
		}
		for _, c := range allClauses {
			if !intersects(cat, c, unique) {
				return Result{}
			}
		}
	}

	contribution, canonical := canonicalOrbit(cat, s.PosSum, s.NegSum)
	if !canonical {
		return Result{}
	}
	return Result{MU: true, Contribution: contribution}
}

func intersects(cat *catalog.Catalog, clause int, mask []uint64) bool {
	base := clause * cat.W
	for i := 0; i < cat.W; i++ {
		if cat.F[base+i]&mask[i] != 0 {
			return true
		}
	}
	return false
}

func allOnesWords(words []uint64, cat *catalog.Catalog) bool {
	full := cat.NumAssignments()
	for i := 0; i < cat.W; i++ {
		lo := i * 64
		width := 64
		if lo+width > full {
			width = full - lo
		}
		var want uint64
		if width == 64 {
			want = ^uint64(0)
		} else {
			want = (uint64(1) << uint(width)) - 1
		}
		if words[i] != want {
			return false
		}
	}
	return true
}

// canonicalOrbit reads back each variable's 5-bit pos/neg counters and
// decides canonicality (pos_i >= neg_i for every variable) and, if
// canonical, the orbit size 2^(v-s) where s is the number of balanced
// variables.
func canonicalOrbit(cat *catalog.Catalog, posSum, negSum uint64) (uint64, bool) {
	s := 0
	for i := 0; i < cat.V; i++ {
		shift := uint(i) * 5
		p := (posSum >> shift) & 0x1F
		n := (negSum >> shift) & 0x1F
		if p < n {
			return 0, false
		}
		if p == n {
			s++
		}
	}
	return uint64(1) << uint(cat.V-s), true
}
