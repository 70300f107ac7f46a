// Package manyvars is the v>6 variant of the engine. The catalog,
// evaluator, dispatcher and hybrid packages already operate on a
// W-word falsification mask for any v, so there is no separate algorithm
// here: this package's job is to select the right underlying dispatcher
// for a multi-word catalog and to flag the one behavioral difference —
// checkpoints written by this variant are for observability only and can
// never be resumed from.
package manyvars

import (
	"context"

	"github.com/satlab/minunsat/catalog"
	"github.com/satlab/minunsat/dispatch"
	"github.com/satlab/minunsat/hybrid"
)

// Engine is a chunked work source, satisfying the same shape as
// dispatch.V2 and hybrid.V3 so the orchestrator can treat all three
// uniformly.
type Engine interface {
	NumChunks() uint64
	EvalChunk(ctx context.Context, chunkID uint64) (uint64, error)
}

// Dispatcher wraps a multi-word V2 or V3 engine and marks it as
// non-resumable: the checkpoint store must not silently
// hide this from callers.
type Dispatcher struct {
	Engine
	Resumable bool
}

// NewFlat builds the many-vars flat (V2) dispatcher for a catalog whose
// word width W is greater than 1.
func NewFlat(cat *catalog.Catalog, c int) *Dispatcher {
	return &Dispatcher{Engine: dispatch.NewV2(cat, c), Resumable: cat.W == 1}
}

// NewHybrid builds the many-vars prefix-pruned (V3) dispatcher for a
// catalog whose word width W is greater than 1.
func NewHybrid(cat *catalog.Catalog, c, p int) *Dispatcher {
	return &Dispatcher{Engine: hybrid.Build(cat, c, p), Resumable: cat.W == 1}
}
