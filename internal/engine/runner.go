package engine

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/dijkstracula/phenolphthalein/internal/env"
	"github.com/dijkstracula/phenolphthalein/internal/histogram"
	"github.com/dijkstracula/phenolphthalein/internal/module"
	"github.com/dijkstracula/phenolphthalein/internal/permute"
	"github.com/dijkstracula/phenolphthalein/internal/rendezvous"
)

// Runner owns the top-level engine state: the shared environment, the
// iteration/epoch budget, and the histogram. It is the single place
// that decides fatal-vs-drain (spec.md §7).
type Runner struct {
	mod module.TestModule
	cfg Config
	log logrus.FieldLogger
	agg *histogram.Aggregator

	permuter permute.Permuter

	envRef *env.Env

	completed atomic.Uint64
	stopped   atomic.Bool

	stopReason histogram.Decision
	stopState  env.State

	// Set by runEpoch before an epoch's goroutines start, and valid only
	// while they run. During an epoch, epochIterations is mutated solely
	// by the post-barrier leader, which is serialised by the barrier
	// contract, so no separate lock is required.
	workers         []*worker
	epochIterations int
	cancelEpoch     context.CancelFunc
}

// NewRunner validates cfg against mod's manifest and returns a Runner
// ready to Run. It does not allocate the environment yet — that happens
// at the start of the first epoch.
func NewRunner(mod module.TestModule, cfg Config) (*Runner, error) {
	manifest := mod.Manifest()
	if err := manifest.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	perm, err := permute.New(cfg.Permute, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Runner{
		mod:      mod,
		cfg:      cfg,
		log:      log,
		agg:      histogram.NewAggregator(cfg.Check, log),
		permuter: perm,
	}, nil
}

// Completed returns the number of iterations observed so far. Safe to
// call concurrently with Run (e.g. from a signal handler deciding
// whether a cancellation produced any partial result).
func (r *Runner) Completed() uint64 { return r.completed.Load() }

// Histogram returns the accumulated histogram. Only safe to read once
// Run has returned: during a run the post-barrier leader mutates it
// without the reader taking any lock.
func (r *Runner) Histogram() *histogram.Histogram { return r.agg.Histogram() }

// StopReason reports the Decision and triggering State that ended the
// run via a check-policy stop, if any.
func (r *Runner) StopReason() (histogram.Decision, env.State, bool) {
	if r.stopReason == histogram.Continue {
		return histogram.Continue, env.State{}, false
	}
	return r.stopReason, r.stopState, true
}

// Run drives the engine until the iteration cap, a check-policy stop
// decision, or ctx's cancellation. It returns the accumulated histogram
// in all cases, including cancellation and policy-stop, and returns a
// non-nil error only for fatal engine errors (spec.md §7, kinds 1-3).
func (r *Runner) Run(ctx context.Context) (*histogram.Histogram, error) {
	defer func() {
		if r.envRef != nil {
			r.envRef.Release()
		}
	}()

	for {
		if r.stopped.Load() {
			break
		}
		if r.cfg.Iterations > 0 && r.completed.Load() >= uint64(r.cfg.Iterations) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if err := r.runEpoch(ctx); err != nil {
			return r.agg.Histogram(), err
		}
	}
	return r.agg.Histogram(), nil
}

// runEpoch allocates a fresh environment and worker set, runs them
// until the epoch ends (rotation boundary, iteration cap, check-policy
// stop, or cancellation), and joins them. A nil error here means the
// epoch ended for one of those ordinary reasons, not a fatal one.
func (r *Runner) runEpoch(ctx context.Context) error {
	manifest := r.mod.Manifest()

	e, err := env.New(manifest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResourceAllocation, err)
	}
	if r.envRef != nil {
		r.envRef.Release()
	}
	r.envRef = e

	sync, err := rendezvous.New(r.cfg.Sync, manifest.NThreads)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	workers := make([]*worker, manifest.NThreads)
	for i := range workers {
		workers[i] = newWorker(i, manifest.NAtomic(), manifest.NNonAtomic())
	}
	r.workers = workers
	r.epochIterations = 0

	epochCtx, cancel := context.WithCancel(ctx)
	r.cancelEpoch = cancel
	defer cancel()

	g, gctx := errgroup.WithContext(epochCtx)
	for _, w := range workers {
		w := w
		g.Go(func() error { return w.run(gctx, r, sync, e, r.mod) })
	}

	r.release(workers)

	return g.Wait()
}

// release sends the gate pulse that lets each worker begin approaching
// the pre-barrier, in the order the Permuter hands back. The brief
// Gosched between sends biases (but, like a real barrier's staggered
// wake-up, does not guarantee) the order in which workers actually reach
// the barrier.
func (r *Runner) release(workers []*worker) {
	order := r.permuter.Permute(len(workers))
	for _, tid := range order {
		workers[tid].gate <- struct{}{}
		runtime.Gosched()
	}
}

// observe is called by the post-barrier leader for one iteration. It
// snapshots the environment, classifies it, feeds the result to the
// Aggregator, applies the check-policy decision, and either reseeds and
// releases the next iteration or ends the epoch.
func (r *Runner) observe(ctx context.Context, w *worker, e *env.Env, mod module.TestModule) error {
	state := e.Snapshot(&w.snapshot)

	var outcome histogram.Outcome
	switch {
	case r.cfg.Check == histogram.PolicyDisable:
		outcome = histogram.Unknown
	case mod.Check(e):
		outcome = histogram.Accepted
	default:
		outcome = histogram.Rejected
	}

	decision, err := r.agg.Observe(state, outcome)
	if err != nil {
		r.cancelEpoch()
		return err
	}

	completed := r.completed.Add(1)
	r.epochIterations++

	if decision != histogram.Continue {
		r.stopped.Store(true)
		r.stopReason = decision
		r.stopState = state
		r.log.WithFields(logrus.Fields{"decision": int(decision), "iterations": completed}).
			Info("check policy fired; draining")
		r.cancelEpoch()
		return nil
	}

	if r.cfg.Iterations > 0 && completed >= uint64(r.cfg.Iterations) {
		r.stopped.Store(true)
		r.cancelEpoch()
		return nil
	}

	if ctx.Err() != nil {
		// External cancellation observed between iterations: drain,
		// no error, no further reseed/release needed.
		r.cancelEpoch()
		return nil
	}

	e.Reseed()

	if r.cfg.Period > 0 && r.epochIterations >= r.cfg.Period {
		r.log.WithField("iterations", completed).Debug("thread-rotation period reached; ending epoch")
		r.cancelEpoch()
		return nil
	}

	r.release(r.workers)
	return nil
}
