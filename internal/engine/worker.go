package engine

import (
	"context"

	"github.com/dijkstracula/phenolphthalein/internal/env"
	"github.com/dijkstracula/phenolphthalein/internal/module"
	"github.com/dijkstracula/phenolphthalein/internal/rendezvous"
)

// worker drives one test thread through the synchronise-run-synchronise-
// observe cycle for the lifetime of an epoch (spec.md §4.W). Its
// snapshot buffer is preallocated once at construction so taking the
// post-barrier snapshot never allocates per iteration.
type worker struct {
	tid  int
	gate chan struct{}

	snapshot env.State
}

func newWorker(tid, nAtomic, nNonAtomic int) *worker {
	return &worker{
		tid:  tid,
		gate: make(chan struct{}, 1),
		snapshot: env.State{
			Atomic:    make([]int32, nAtomic),
			NonAtomic: make([]int32, nNonAtomic),
		},
	}
}

// run is the worker's goroutine body for one epoch. ctx is the epoch's
// errgroup context: cancelled either by external cancellation
// propagating from the Runner's parent context, or by the post-barrier
// leader ending the epoch (rotation boundary, iteration cap, or a
// check-policy stop).
func (w *worker) run(ctx context.Context, r *Runner, sync rendezvous.Synchroniser, e *env.Env, mod module.TestModule) error {
	for {
		select {
		case <-w.gate:
		case <-ctx.Done():
			return nil
		}

		// Cancellation is observed only here, at the pre-barrier
		// wake-up (spec.md §5) — never mid-iteration. A worker that
		// sees it exits cleanly instead of entering the test body.
		if ctx.Err() != nil {
			return nil
		}

		sync.Wait(w.tid) // pre-barrier: establishes reseed-happens-before-test-body

		mod.Test(w.tid, e)

		if leader := sync.Wait(w.tid); leader { // post-barrier
			if err := r.observe(ctx, w, e, mod); err != nil {
				return err
			}
		}
	}
}
