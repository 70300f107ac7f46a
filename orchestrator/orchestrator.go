// Package orchestrator owns engine selection, batching, cancellation,
// progress reporting and checkpoint lifecycle: it is the single
// caller every CLI verb and every test drives the enumeration engine
// through.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/checkpoint"
	"github.com/satlab/minunsat/dispatch"
	"github.com/satlab/minunsat/eval"
	"github.com/satlab/minunsat/hybrid"
	"github.com/satlab/minunsat/internal/clique"
	"github.com/satlab/minunsat/internal/errs"
	"github.com/satlab/minunsat/internal/kernel"
	"github.com/satlab/minunsat/internal/obslog"
	"github.com/satlab/minunsat/manyvars"
	"github.com/satlab/minunsat/prune"
)

// BatchSize is the maximum number of chunks dispatched
// per kernel invocation, bounding how often cancellation/progress/
// checkpoint are serviced.
const BatchSize = 500_000

// ProgressInterval and CheckpointInterval are the minimum gaps between
// progress records and checkpoint writes.
const (
	ProgressInterval   = 5 * time.Second
	CheckpointInterval = 30 * time.Second
)

// EngineKind names the concrete variant the orchestrator selected, per
// the orchestrator's polymorphic counter capability.
type EngineKind string

const (
	EngineCPUOptimized   EngineKind = "CpuOptimized"
	EngineCPUManyVars    EngineKind = "CpuManyVars"
	EngineParallelV2     EngineKind = "ParallelOptimizedV2"
	EnginePrefixHybridV3 EngineKind = "PrefixHybridV3"
	EngineManyVarsHybrid EngineKind = "ManyVarsHybrid"
	EngineExactCoverV8   EngineKind = "ExactCoverClique"
)

// CountMode selects which predicate EvalChunk counts candidates against.
type CountMode int

const (
	// ModeMU requires minimality and all-variables-used, the `count` verb's
	// definition. This is the zero value so existing Params{} callers keep
	// their original behavior.
	ModeMU CountMode = iota
	// ModeUnsatOnly drops both the minimality and all-variables-used
	// checks, counting every UNSAT formula regardless of clause redundancy
	// or unused variables: the `unsat` verb's definition.
	ModeUnsatOnly
)

// Params is every input the orchestrator's engine-selection rule and run
// loop need.
type Params struct {
	V, K, C int
	Mode    CountMode

	ForceCPU         bool // --cpu: force the CPU/many-vars engine
	ForcePrefixDepth int  // -p: force a V3 prefix depth; 0 means "use default"
	EnableCheckpoint bool
	CheckpointDir    string // defaults to "Checkpoints" when EnableCheckpoint
	Parallelism      int    // worker budget; 0 means GOMAXPROCS
}

// Result is what every orchestrator run returns, on both normal
// completion and cancellation.
type Result struct {
	Count          uint64
	ProcessedUnits uint64
	TotalUnits     uint64
	Elapsed        time.Duration
	Cancelled      bool
	Engine         EngineKind
	RunID          string
	PruneSkipped   bool // pruning oracle could not build; engine fell back to V2
}

// engine is the uniform shape dispatch.V2, hybrid.V3 and manyvars.Dispatcher
// all satisfy.
type engine interface {
	NumChunks() uint64
	EvalChunk(ctx context.Context, chunkID uint64) (uint64, error)
}

// Run selects an engine for p, then drives it to completion or
// cancellation, honoring checkpointing if enabled. ctx cancellation is
// polled only between dispatched batches.
func Run(ctx context.Context, p Params) (Result, error) {
	if err := validateStructuralMinimum(p.V, p.K, p.C); err != nil {
		return Result{}, err
	}
	if p.C > 20 {
		return Result{}, errs.NewConfig("c=%d exceeds engine capacity (c<=20, 5-bit polarity fields)", p.C)
	}

	runID := uuid.New().String()
	cat, err := catalog.Build(p.V, p.K)
	if err != nil {
		return Result{}, err
	}

	kind, eng, pruneSkipped := selectEngine(cat, p)
	fields := obslog.RunFields(runID, string(kind), p.V, p.K, p.C)
	obslog.Logger.WithFields(fields).Info("engine selected")

	checkpointDir := p.CheckpointDir
	if checkpointDir == "" {
		checkpointDir = "Checkpoints"
	}

	total := eng.NumChunks()
	var startChunk uint64
	var baseCount uint64
	var baseElapsed time.Duration
	resumable := kind != EngineCPUManyVars && kind != EngineManyVarsHybrid && kind != EngineExactCoverV8
	if p.EnableCheckpoint {
		if doc, ok, loadErr := checkpoint.Load(checkpointDir, p.V, p.K, p.C, total); loadErr == nil && ok && resumable {
			startChunk = doc.ProcessedUnits
			baseCount = doc.PartialCount
			baseElapsed = time.Duration(doc.ElapsedMs) * time.Millisecond
			obslog.Logger.WithFields(fields).WithField("resume_from", startChunk).Info("resuming from checkpoint")
		}
	}

	exec := kernel.Acquire(p.Parallelism)
	defer exec.Release()

	start := time.Now()
	count := baseCount
	processed := startChunk
	lastProgress := start
	lastCheckpoint := start
	cancelled := false

	for processed < total {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			break
		}

		batchEnd := processed + BatchSize
		if batchEnd > total {
			batchEnd = total
		}
		ids := make([]uint64, 0, batchEnd-processed)
		for id := processed; id < batchEnd; id++ {
			ids = append(ids, id)
		}

		sum, dispatchedCount, dispatchErr := exec.Dispatch(ctx, ids, func(ctx context.Context, id uint64) (uint64, error) {
			return eng.EvalChunk(ctx, id)
		})
		if dispatchErr != nil {
			return Result{}, errs.NewResource(dispatchErr, "batch dispatch failed")
		}
		count += sum
		processed += uint64(dispatchedCount)
		if dispatchedCount < len(ids) {
			// ctx was cancelled partway through this batch; everything
			// dispatched before that point has already been folded into
			// count/processed above, so this is a partial, not a failure.
			cancelled = true
		}

		now := time.Now()
		if now.Sub(lastProgress) >= ProgressInterval {
			obslog.Logger.WithFields(fields).WithFields(logrus.Fields{
				"processed_units": processed,
				"total_units":     total,
			}).Info("progress")
			lastProgress = now
		}
		if p.EnableCheckpoint && now.Sub(lastCheckpoint) >= CheckpointInterval {
			_ = checkpoint.Save(checkpointDir, checkpoint.Document{
				V: p.V, L: p.K, C: p.C,
				ProcessedUnits: processed,
				PartialCount:   count,
				ElapsedMs:      (baseElapsed + now.Sub(start)).Milliseconds(),
				RunID:          runID,
				Resumable:      resumable,
			})
			lastCheckpoint = now
		}

		if cancelled {
			break
		}
	}

	elapsed := baseElapsed + time.Since(start)

	if cancelled {
		if p.EnableCheckpoint {
			_ = checkpoint.Save(checkpointDir, checkpoint.Document{
				V: p.V, L: p.K, C: p.C,
				ProcessedUnits: processed,
				PartialCount:   count,
				ElapsedMs:      elapsed.Milliseconds(),
				RunID:          runID,
				Resumable:      resumable,
			})
		}
		return Result{
			Count: count, ProcessedUnits: processed, TotalUnits: total,
			Elapsed: elapsed, Cancelled: true, Engine: kind, RunID: runID, PruneSkipped: pruneSkipped,
		}, nil
	}

	if p.EnableCheckpoint {
		_ = checkpoint.Delete(checkpointDir, p.V, p.K, p.C)
	}
	return Result{
		Count: count, ProcessedUnits: processed, TotalUnits: total,
		Elapsed: elapsed, Cancelled: false, Engine: kind, RunID: runID, PruneSkipped: pruneSkipped,
	}, nil
}

// validateStructuralMinimum rejects (v,k,c) triples below the clause count
// a formula needs before UNSAT is even structurally possible, mirroring
// formula.Evaluate's rule for k=2 and generalizing it to k=3: a 2-clause
// falsifies 1/4 of the 2^v assignments and a 3-clause falsifies 1/8 of
// them, so no UNSAT formula can exist below ceil(4) / ceil(8) clauses
// respectively; for k=2 the all-variables-used requirement raises that
// floor further to v+1 once v>2 (v=2 only ever admits c=4 exactly, since
// there are only 4 distinct 2-clause types over 2 variables).
func validateStructuralMinimum(v, k, c int) error {
	switch k {
	case 2:
		if v == 2 {
			if c != 4 {
				return errs.NewConfig("v=2 admits only c=4, got c=%d", c)
			}
			return nil
		}
		if c < v+1 {
			return errs.NewConfig("c=%d is below the structural minimum %d for v=%d, k=2", c, v+1, v)
		}
	case 3:
		if c < 8 {
			return errs.NewConfig("c=%d is below the structural minimum 8 for k=3", c)
		}
	default:
		return errs.NewConfig("unsupported k=%d", k)
	}
	return nil
}

// selectEngine implements the §4.7 table, with the c=8 exact-cover
// short-circuit checked first since it overrides the general V3 choice
// whenever it applies.
func selectEngine(cat *catalog.Catalog, p Params) (EngineKind, engine, bool) {
	if p.Mode == ModeUnsatOnly {
		return selectUnsatOnlyEngine(cat, p)
	}
	if p.K == 3 && p.C == 8 {
		return EngineExactCoverV8, cliqueEngine{cat: cat}, false
	}

	manyVars := cat.W > 1

	if p.K == 3 && !p.ForceCPU {
		depth := p.ForcePrefixDepth
		if depth == 0 {
			depth = hybrid.DefaultPrefixDepth(p.C)
		}
		pruneSkipped := buildPruneOracle(cat)
		if pruneSkipped {
			if manyVars {
				return EngineCPUManyVars, manyvars.NewFlat(cat, p.C), true
			}
			return EngineParallelV2, dispatch.NewV2(cat, p.C), true
		}
		if manyVars {
			disp := manyvars.NewHybrid(cat, p.C, depth)
			if v3, ok := disp.Engine.(*hybrid.V3); ok {
				v3.Prune = prunePassFunc(cat, pruneSkipped)
			}
			return EngineManyVarsHybrid, disp, pruneSkipped
		}
		v3 := hybrid.Build(cat, p.C, depth)
		v3.Prune = prunePassFunc(cat, pruneSkipped)
		return EnginePrefixHybridV3, v3, pruneSkipped
	}

	if manyVars || p.ForceCPU {
		return EngineCPUManyVars, manyvars.NewFlat(cat, p.C), false
	}
	return EngineParallelV2, dispatch.NewV2(cat, p.C), false
}

// selectUnsatOnlyEngine always runs the flat, unpruned V2 dispatcher: the
// c=8 clique shortcut's correctness depends on MU and UNSAT coinciding
// exactly at the structural minimum, and the V3 hybrid's variable-coverage
// prune assumes all-variables-used is necessary, so neither is sound once
// both checks are dropped. The 3-SAT pruning oracle is not attached on
// this path either.
func selectUnsatOnlyEngine(cat *catalog.Catalog, p Params) (EngineKind, engine, bool) {
	v2 := dispatch.NewV2(cat, p.C)
	v2.Mode = eval.ModeUnsatOnly
	if cat.W > 1 || p.ForceCPU {
		return EngineCPUManyVars, v2, false
	}
	return EngineParallelV2, v2, false
}

// buildPruneOracle builds the 3-SAT pruning oracle, disabled for
// 2-SAT entirely (callers never invoke this for k=2). It reports whether
// the build failed to select any group, in which case selectEngine falls
// back to the flat V2 engine; the switch is logged here rather than made
// silently.
func buildPruneOracle(cat *catalog.Catalog) bool {
	stats := prune.Build(cat)
	if stats.SkippedBuild {
		obslog.Logger.Warn("pruning oracle failed to select any group; falling back to the flat V2 engine")
	}
	return stats.SkippedBuild
}

func prunePassFunc(cat *catalog.Catalog, skipped bool) dispatch.PruneFunc {
	if skipped {
		return nil
	}
	return func(tuple []int) bool { return prune.Passes(cat, tuple) }
}

// cliqueEngine adapts the single-shot clique.Count into the one-chunk
// engine shape the run loop expects, so the c=8 special case shares the
// same batching/progress/checkpoint machinery as every other engine.
type cliqueEngine struct {
	cat *catalog.Catalog
}

func (c cliqueEngine) NumChunks() uint64 { return 1 }

func (c cliqueEngine) EvalChunk(ctx context.Context, chunkID uint64) (uint64, error) {
	if chunkID != 0 {
		return 0, nil
	}
	return clique.Count(c.cat), nil
}
