// Package clique implements the dedicated exact-cover clique enumerator
// the orchestrator selects for k=3, c=8. For exactly 8 clauses of
// a 3-CNF, coverage and minimality degenerate into a single combinatorial
// fact: since each clause falsifies exactly 2^(v-3) assignments and
// 8*2^(v-3) == 2^v identically, an UNSAT formula at c=8 must cover every
// assignment with no overlap at all — its 8 falsification masks partition
// the assignment space exactly. Minimality then follows for free (no
// overlap means every clause uniquely falsifies its whole mask). The
// search therefore reduces to finding 8-cliques in the "disjointness
// graph" over clause types (an edge joins two clauses whose falsification
// masks share no assignment) whose union also covers every variable.
package clique

import (
	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/eval"
)

// CliqueSize is fixed by this engine's special case: c must equal 8.
const CliqueSize = 8

// Graph is the disjointness adjacency of a catalog's clause types: bit j
// of Adjacency[i] is set iff clauses i and j have disjoint falsification
// masks (i != j).
type Graph struct {
	cat        *catalog.Catalog
	adjWords   int
	Adjacency  []uint64 // flattened T x adjWords
}

// Build computes the disjointness graph over every pair of clause types in
// cat. This is the one O(T^2 * W) pass the enumerator needs; the search
// itself then only walks edges.
func Build(cat *catalog.Catalog) *Graph {
	adjWords := (cat.T + 63) / 64
	g := &Graph{cat: cat, adjWords: adjWords, Adjacency: make([]uint64, cat.T*adjWords)}
	for i := 0; i < cat.T; i++ {
		for j := i + 1; j < cat.T; j++ {
			if disjoint(cat, i, j) {
				g.setEdge(i, j)
				g.setEdge(j, i)
			}
		}
	}
	return g
}

func disjoint(cat *catalog.Catalog, i, j int) bool {
	bi, bj := i*cat.W, j*cat.W
	for w := 0; w < cat.W; w++ {
		if cat.F[bi+w]&cat.F[bj+w] != 0 {
			return false
		}
	}
	return true
}

func (g *Graph) setEdge(i, j int) {
	g.Adjacency[i*g.adjWords+j/64] |= 1 << uint(j%64)
}

func (g *Graph) hasEdge(i, j int) bool {
	return g.Adjacency[i*g.adjWords+j/64]&(1<<uint(j%64)) != 0
}

// Count enumerates every 8-clique of the disjointness graph whose union
// covers every variable, and returns the summed orbit contribution over
// every canonical one, exactly the quantity the general engine would
// produce for the same (v,3,8) if allowed to complete.
func Count(cat *catalog.Catalog) uint64 {
	g := Build(cat)
	var sum uint64
	chosen := make([]int, 0, CliqueSize)
	var walk func(start int)
	walk = func(start int) {
		if len(chosen) == CliqueSize {
			res := eval.EvaluateCandidate(cat, chosen, eval.ModeMU)
			if res.MU {
				sum += res.Contribution
			}
			return
		}
		remaining := CliqueSize - len(chosen)
		for c := start; c <= cat.T-remaining; c++ {
			if !extendsClique(g, chosen, c) {
				continue
			}
			chosen = append(chosen, c)
			walk(c + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	walk(0)
	return sum
}

func extendsClique(g *Graph, chosen []int, candidate int) bool {
	for _, c := range chosen {
		if !g.hasEdge(c, candidate) {
			return false
		}
	}
	return true
}
