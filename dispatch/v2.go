// Package dispatch implements the flat chunk dispatcher ("V2"):
// C(T,c) is partitioned into fixed-size chunks, each chunk unranked once
// and then advanced incrementally, reusing the cached clause data for
// every candidate in the chunk.
package dispatch

import (
	"context"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/comb"
	"github.com/satlab/minunsat/eval"
)

// ChunkSize is the number of candidates one chunk covers.
const ChunkSize = 1024

// PruneFunc is a necessary-condition filter applied before the (more
// expensive) full evaluation; it never produces false rejections.
type PruneFunc func(tuple []int) bool

// V2 enumerates every c-subset of a catalog's T clause types in flat
// chunks of ChunkSize candidates each.
type V2 struct {
	Cat    *catalog.Catalog
	C      int
	Ranker *comb.Ranker
	Total  uint64 // C(T,c)
	Prune  PruneFunc
	Mode   eval.Mode // zero value eval.ModeMU
}

// NewV2 builds a V2 dispatcher over cat for candidates of exactly c
// clauses.
func NewV2(cat *catalog.Catalog, c int) *V2 {
	rk := comb.NewRanker(cat.T, c)
	return &V2{
		Cat:    cat,
		C:      c,
		Ranker: rk,
		Total:  rk.Count(cat.T, c),
	}
}

// NumChunks returns ceil(Total/ChunkSize), the number of chunk ids in
// [0, NumChunks).
func (v *V2) NumChunks() uint64 {
	if v.Total == 0 {
		return 0
	}
	return (v.Total + ChunkSize - 1) / ChunkSize
}

// EvalChunk unranks the chunkID-th chunk and evaluates every candidate in
// it, returning the summed orbit contribution of every candidate accepted
// under v.Mode (MU formulas under ModeMU, UNSAT ones under ModeUnsatOnly).
// It satisfies kernel.EvalFunc's signature so it can be handed directly to
// an Executor.
func (v *V2) EvalChunk(ctx context.Context, chunkID uint64) (uint64, error) {
	start := chunkID * ChunkSize
	if start >= v.Total {
		return 0, nil
	}
	tuple := v.Ranker.Unrank(start, v.Cat.T, v.C)
	var sum uint64
	for i := 0; i < ChunkSize; i++ {
		if v.Prune == nil || v.Prune(tuple) {
			res := eval.EvaluateCandidate(v.Cat, tuple, v.Mode)
			if res.MU {
				sum += res.Contribution
			}
		}
		if !comb.Next(tuple, v.Cat.T) {
			break
		}
	}
	return sum, nil
}
