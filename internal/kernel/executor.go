// Package kernel is the concrete CPU realization of the abstract "parallel
// kernel executor" the engine dispatches work to. A chunk (flat V2) or a
// flattened suffix chunk (prefix-pruned V3) is one work unit; the Executor
// runs a batch of them across bounded goroutines and reduces their partial
// sums, mirroring the block-level shared-memory reduction of a GPU kernel
// invocation without requiring one.
package kernel

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Executor bounds the number of in-flight chunk evaluations to its weight,
// the CPU analogue of a GPU context's block budget.
type Executor struct {
	sem *semaphore.Weighted
}

// Acquire allocates an Executor with room for n concurrent chunk workers.
// n <= 0 defaults to GOMAXPROCS. The caller must Release the executor on
// every exit path: success, cancellation, or error.
func Acquire(n int) *Executor {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Executor{sem: semaphore.NewWeighted(int64(n))}
}

// Release drops the executor's resources. It is a no-op for the CPU
// realization but exists so callers follow the scoped-acquisition
// discipline uniformly, regardless of what backend Acquire resolves to.
func (e *Executor) Release() {}

// EvalFunc computes the contribution of a single work unit (chunk id).
type EvalFunc func(ctx context.Context, chunkID uint64) (uint64, error)

// Dispatch runs eval over every id in chunkIDs, bounded by the executor's
// concurrency budget, and returns the reduced sum of all contributions
// together with how many of chunkIDs were actually dispatched. This is the
// batch barrier of the concurrency model: Dispatch does not return until
// every dispatched chunk has completed.
//
// If ctx is cancelled while chunks remain to be launched, Dispatch stops
// launching new work, waits for what's already running to finish, and
// returns their sum with dispatched < len(chunkIDs) and a nil error —
// cancellation partway through a batch is not a failure, it just means the
// caller got fewer chunks' worth of work than it asked for. A non-nil error
// is reserved for an actual worker failure (a panicking chunk).
func (e *Executor) Dispatch(ctx context.Context, chunkIDs []uint64, eval EvalFunc) (sum uint64, dispatched int, err error) {
	var total uint64
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range chunkIDs {
		id := id
		if acquireErr := e.sem.Acquire(gctx, 1); acquireErr != nil {
			break
		}
		dispatched++
		g.Go(func() error {
			defer e.sem.Release(1)
			contribution, evalErr := safeEval(gctx, id, eval)
			if evalErr != nil {
				return evalErr
			}
			atomic.AddUint64(&total, contribution)
			return nil
		})
	}
	if waitErr := g.Wait(); waitErr != nil {
		return 0, 0, waitErr
	}
	return total, dispatched, nil
}

// safeEval recovers a panic from a worker and converts it to an error so a
// single bad chunk cannot corrupt the reduction of the rest of the batch.
// Workers are documented as pure functions of read-only inputs; this is a
// defensive backstop, not an expected path.
func safeEval(ctx context.Context, id uint64, eval EvalFunc) (contribution uint64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chunk %d panicked: %v", id, r)
		}
	}()
	return eval(ctx, id)
}
