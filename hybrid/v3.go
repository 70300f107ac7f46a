// Package hybrid implements the prefix-pruned hybrid enumeration ("V3"):
// short P-clause prefixes are walked on the host, cheap necessary
// conditions reject the overwhelming majority of them, and only surviving
// prefixes' suffixes are dispatched as chunked work. This is the engine
// used for 3-SAT at moderate (v,c), where flat enumeration is bounded by
// C(T,c) even though almost no subset can possibly be UNSAT.
package hybrid

import (
	"context"
	"sort"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/comb"
	"github.com/satlab/minunsat/dispatch"
	"github.com/satlab/minunsat/eval"
)

// DefaultPrefixDepth chooses P: 3 if c > 12, else 2.
func DefaultPrefixDepth(c int) int {
	if c > 12 {
		return 3
	}
	return 2
}

// survivor is a prefix that passed all three prunes, together with its
// folded state and suffix window.
type survivor struct {
	clauses      []int // the P prefix clause ids
	state        eval.State
	suffixStart  int
	suffixN      int
	suffixChunks uint64
}

// V3 is the prefix-pruned hybrid dispatcher. Build performs the entire
// host-side prefix enumeration once; EvalChunk then serves flattened
// global chunk ids against the resulting survivor list.
type V3 struct {
	Cat   *catalog.Catalog
	C, P  int
	Cs    int // suffix clause count, c - P
	Prune dispatch.PruneFunc

	ranker      *comb.Ranker // over T choose Cs, sized for the largest suffix window
	survivors   []survivor
	cumChunks   []uint64 // CC: cumChunks[p] = total suffix chunks in survivors[0:p]
	totalChunks uint64
}

// Build runs the host-side prefix enumeration and returns a ready-to-use
// V3 dispatcher for candidates of exactly c clauses with prefix depth p.
func Build(cat *catalog.Catalog, c, p int) *V3 {
	cs := c - p
	v3 := &V3{Cat: cat, C: c, P: p, Cs: cs}
	v3.ranker = comb.NewRanker(cat.T, maxInt(p, cs))

	suffCov, suffVar := suffixAggregates(cat)

	allVars := cat.AllVarsMask()
	fullCap := cs * (1 << uint(cat.V-cat.K))

	prefixTuple := v3.ranker.Unrank(0, cat.T, p)
	total := v3.ranker.Count(cat.T, p)
	for idx := uint64(0); idx < total; idx++ {
		if idx > 0 {
			comb.Next(prefixTuple, cat.T)
		}
		last := prefixTuple[p-1]
		suffixStart := last + 1
		suffixN := cat.T - suffixStart
		if suffixN < cs {
			continue // not enough clauses left for a full suffix
		}

		s := eval.NewState(cat.W)
		for _, clause := range prefixTuple {
			s.Fold(cat, clause)
		}

		if !orEqualsFull(s.One, suffCov[last], cat) {
			continue // Prune 1: coverage
		}
		if s.VarCov|suffVar[last] != allVars {
			continue // Prune 2: variables
		}
		missing := cat.NumAssignments() - popcountWords(s.One)
		if missing > fullCap {
			continue // Prune 3: capacity
		}

		chunks := (v3.ranker.Count(suffixN, cs) + dispatch.ChunkSize - 1) / dispatch.ChunkSize
		v3.survivors = append(v3.survivors, survivor{
			clauses:      append([]int(nil), prefixTuple...),
			state:        s,
			suffixStart:  suffixStart,
			suffixN:      suffixN,
			suffixChunks: chunks,
		})
	}

	v3.cumChunks = make([]uint64, len(v3.survivors)+1)
	for i, sv := range v3.survivors {
		v3.cumChunks[i+1] = v3.cumChunks[i] + sv.suffixChunks
	}
	v3.totalChunks = v3.cumChunks[len(v3.cumChunks)-1]
	return v3
}

// NumChunks returns the total flattened work-chunk count W.
func (v3 *V3) NumChunks() uint64 { return v3.totalChunks }

// NumSurvivors returns how many prefixes survived pruning, for observability
// of the oracle's empirical skip rate.
func (v3 *V3) NumSurvivors() int { return len(v3.survivors) }

// EvalChunk binary-searches the cumulative-chunks vector to find chunk g's
// owning prefix, unranks the local suffix chunk within that prefix's
// suffix window, and evaluates every candidate in it.
func (v3 *V3) EvalChunk(ctx context.Context, g uint64) (uint64, error) {
	if g >= v3.totalChunks {
		return 0, nil
	}
	p := sort.Search(len(v3.cumChunks), func(i int) bool { return v3.cumChunks[i] > g }) - 1
	sv := v3.survivors[p]
	localChunk := g - v3.cumChunks[p]

	start := localChunk * dispatch.ChunkSize
	suffixTotal := v3.ranker.Count(sv.suffixN, v3.Cs)
	if start >= suffixTotal {
		return 0, nil
	}
	localTuple := v3.ranker.Unrank(start, sv.suffixN, v3.Cs)
	globalTuple := make([]int, v3.Cs)
	for i, x := range localTuple {
		globalTuple[i] = x + sv.suffixStart
	}

	var sum uint64
	for i := 0; i < dispatch.ChunkSize; i++ {
		if v3.Prune == nil || v3.Prune(concat(sv.clauses, globalTuple)) {
			res := eval.EvaluateFrom(v3.Cat, sv.state, sv.clauses, globalTuple, eval.ModeMU)
			if res.MU {
				sum += res.Contribution
			}
		}
		if !comb.Next(localTuple, sv.suffixN) {
			break
		}
		for j, x := range localTuple {
			globalTuple[j] = x + sv.suffixStart
		}
	}
	return sum, nil
}

func concat(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// suffixAggregates precomputes suffCov[i] = OR of F[j] for j>i and
// suffVar[i] = OR of V[j] for j>i, for every clause index i, by a single
// right-to-left scan.
func suffixAggregates(cat *catalog.Catalog) ([][]uint64, []uint32) {
	cov := make([][]uint64, cat.T)
	vr := make([]uint32, cat.T)
	running := make([]uint64, cat.W)
	var runningVar uint32
	for i := cat.T - 1; i >= 0; i-- {
		cov[i] = append([]uint64(nil), running...)
		vr[i] = runningVar
		base := i * cat.W
		for w := 0; w < cat.W; w++ {
			running[w] |= cat.F[base+w]
		}
		runningVar |= cat.VarMask[i]
	}
	return cov, vr
}

func orEqualsFull(one, suffCov []uint64, cat *catalog.Catalog) bool {
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
		if (one[i]|suffCov[i])&want != want {
			return false
		}
	}
	return true
}

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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
