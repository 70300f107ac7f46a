// Package catalog builds the universe of k-clauses over v Boolean variables
// and the precomputed bitmask arrays (falsification masks, variable-usage
// masks, packed polarity sums) that every later stage of the engine — the
// candidate evaluator, the pruning oracle, the chunk dispatchers — reads
// but never mutates. A Catalog is built once per (v, k) and is immutable
// for the remainder of a run, the same role solver.Problem plays for
// gophersat's CDCL solver, but sized to the whole clause universe rather
// than to one formula.
package catalog

import (
	"fmt"

	"github.com/satlab/minunsat/internal/errs"
)

// Literal polarity. pos < neg, matching the ascending binary order required
// by the enumeration used to assign clause-type IDs.
const (
	pos = 0
	neg = 1
)

// polarityStride is the width, in bits, of each variable's occurrence
// counter packed into PosSum/NegSum. 5 bits holds counts up to 31, which
// covers every c in the engine's documented capacity (c <= 20).
const polarityStride = 5

// wordBits is the width of one falsification-mask word.
const wordBits = 64

// Catalog is the precomputed universe of T = C(v,k)*2^k clause types over v
// variables, plus the per-clause bitmask arrays used by every stage above
// it. It is safe for concurrent read-only use once Build returns.
type Catalog struct {
	V, K int
	T    int // number of clause types
	W    int // words per 2^V-bit falsification mask; W=1 iff V<=6

	// F holds one falsification mask per clause type, W words each,
	// flattened as F[c*W : c*W+W]. Bit a of clause c's mask is 1 iff
	// clause c is falsified by assignment a.
	F []uint64

	// VarMask[c] has bit i set iff variable i appears in clause c.
	VarMask []uint32

	// PosSum[c] and NegSum[c] pack, for each variable i, a polarityStride-bit
	// counter at stride i*polarityStride: 1 if clause c contains variable i
	// with that polarity, 0 otherwise (a clause uses each of its variables
	// exactly once, so the packed counter from a single clause is a 0/1
	// indicator; summing these vectors across a candidate's clauses yields
	// true occurrence counts, via the P+/P- accumulation rule).
	PosSum, NegSum []uint64

	// Groups is the per-clause group-coverage byte used by the 3-SAT
	// pruning oracle. It is left nil until the oracle populates it.
	Groups []byte

	// vars[c] is the ascending variable tuple of clause c, cached for
	// rendering and for the pruning oracle's coverage computation.
	vars [][]int
	// litSigns[c][j] is pos or neg for vars[c][j].
	litSigns [][]int
}

// AllVarsMask is the v-bit mask with every variable present.
func (c *Catalog) AllVarsMask() uint32 {
	if c.V == 32 {
		return ^uint32(0)
	}
	return (uint32(1) << c.V) - 1
}

// NumAssignments returns 2^V.
func (c *Catalog) NumAssignments() int { return 1 << c.V }

// Vars returns the ascending variable tuple of clause c.
func (c *Catalog) Vars(clause int) []int { return c.vars[clause] }

// Build constructs the clause catalog for v variables and k-literal
// clauses. It fails with a ConfigError if (v,k) is out of the documented
// range: v in {k,...,10}, k in {2,3}.
func Build(v, k int) (*Catalog, error) {
	if k != 2 && k != 3 {
		return nil, errs.NewConfig("unsupported clause width k=%d (must be 2 or 3)", k)
	}
	if v < k || v > 10 {
		return nil, errs.NewConfig("unsupported variable count v=%d for k=%d (must be in [%d,10])", v, k, k)
	}

	tuples := kSubsets(v, k)
	t := len(tuples) * (1 << k)
	w := (1<<v + wordBits - 1) / wordBits

	cat := &Catalog{
		V: v, K: k, T: t, W: w,
		F:       make([]uint64, t*w),
		VarMask: make([]uint32, t),
		PosSum:  make([]uint64, t),
		NegSum:  make([]uint64, t),
		vars:    make([][]int, t),
		litSigns: make([][]int, t),
	}

	id := 0
	for _, tuple := range tuples {
		for polarities := 0; polarities < (1 << k); polarities++ {
			signs := make([]int, k)
			for j := 0; j < k; j++ {
				if polarities&(1<<j) != 0 {
					signs[j] = neg
				} else {
					signs[j] = pos
				}
			}
			cat.fillClause(id, tuple, signs)
			id++
		}
	}
	return cat, nil
}

// fillClause computes clause id's falsification mask, variable-usage mask
// and polarity-sum contribution for the clause over the given variable
// tuple and per-literal signs.
func (cat *Catalog) fillClause(id int, tuple, signs []int) {
	varCopy := append([]int(nil), tuple...)
	signCopy := append([]int(nil), signs...)
	cat.vars[id] = varCopy
	cat.litSigns[id] = signCopy

	var varMask uint32
	var posSum, negSum uint64
	for j, vr := range tuple {
		varMask |= 1 << uint(vr)
		shift := uint(vr) * polarityStride
		if signs[j] == pos {
			posSum |= 1 << shift
		} else {
			negSum |= 1 << shift
		}
	}
	cat.VarMask[id] = varMask
	cat.PosSum[id] = posSum
	cat.NegSum[id] = negSum

	base := id * cat.W
	for a := 0; a < (1 << cat.V); a++ {
		if clauseFalsified(a, tuple, signs) {
			word := a / wordBits
			bit := uint(a % wordBits)
			cat.F[base+word] |= 1 << bit
		}
	}
}

// clauseFalsified reports whether assignment a (bit i = value of variable
// i) falsifies the clause over variables tuple with per-literal signs.
func clauseFalsified(a int, tuple, signs []int) bool {
	for j, vr := range tuple {
		bit := (a >> uint(vr)) & 1
		litTrue := (signs[j] == pos && bit == 1) || (signs[j] == neg && bit == 0)
		if litTrue {
			return false
		}
	}
	return true
}

// kSubsets returns every ascending k-subset of {0,...,v-1} in lexicographic
// order, as the catalog's variable-tuple enumeration requires.
func kSubsets(v, k int) [][]int {
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		out = append(out, append([]int(nil), idx...))
		i := k - 1
		for i >= 0 && idx[i] == v-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

// String renders clause c as a DIMACS-like disjunction, e.g. "(1 | -3 | 4)".
func (cat *Catalog) String(clause int) string {
	vars, signs := cat.vars[clause], cat.litSigns[clause]
	s := "("
	for j, vr := range vars {
		if j > 0 {
			s += " | "
		}
		if signs[j] == neg {
			s += fmt.Sprintf("-%d", vr+1)
		} else {
			s += fmt.Sprintf("%d", vr+1)
		}
	}
	return s + ")"
}
