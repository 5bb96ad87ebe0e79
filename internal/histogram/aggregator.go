package histogram

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dijkstracula/phenolphthalein/internal/env"
)

var (
	ErrInvalidCheckPolicy = errors.New("histogram: invalid check policy")

	// ErrInconsistentCheck is a test-contract violation (spec.md §7,
	// kind 3): the same observed state classified two different ways.
	ErrInconsistentCheck = errors.New("histogram: check returned inconsistent classification for a previously seen state")
)

// Aggregator holds the Histogram and drives the check-policy decision
// for each observation. Per spec.md §4.A it is only ever called by the
// post-iteration leader, and leaders are serialised by the post-barrier,
// so the mutex here is a belt-and-braces guard rather than a
// correctness requirement — it costs nothing on the single-writer path
// and makes a future concurrent-aggregation mode a pure addition.
type Aggregator struct {
	mu     sync.Mutex
	hist   *Histogram
	policy CheckPolicy
	log    logrus.FieldLogger
}

// NewAggregator returns an Aggregator configured with the given check
// policy. log may be nil, in which case a no-op logger is used.
func NewAggregator(policy CheckPolicy, log logrus.FieldLogger) *Aggregator {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Aggregator{
		hist:   NewHistogram(),
		policy: policy,
		log:    log,
	}
}

// Histogram returns the accumulated histogram. Only safe to read after
// the run has stopped.
func (a *Aggregator) Histogram() *Histogram { return a.hist }

// Observe records one completed iteration's final state and
// classification, and returns the Decision the Runner should act on.
//
// If state was seen before with a different outcome, this is a fatal
// test-contract violation and is surfaced as an error rather than
// silently overwriting the stored classification.
func (a *Aggregator) Observe(state env.State, outcome Outcome) (Decision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := stateKey(state)
	if e, ok := a.hist.entries[key]; ok {
		if e.Outcome != outcome {
			a.log.WithFields(logrus.Fields{
				"atomic":    state.Atomic,
				"nonAtomic": state.NonAtomic,
				"previous":  e.Outcome,
				"new":       outcome,
			}).Error("inconsistent check classification for a previously observed state")
			return Continue, fmt.Errorf("%w: state=%v", ErrInconsistentCheck, state)
		}
		e.Count++
	} else {
		// state's slices may alias a worker's reused snapshot buffer
		// (spec.md §4.W); the histogram entry must own stable copies,
		// since the buffer is overwritten again next iteration.
		owned := env.State{
			Atomic:    append([]int32(nil), state.Atomic...),
			NonAtomic: append([]int32(nil), state.NonAtomic...),
		}
		a.hist.entries[key] = &Entry{State: owned, Outcome: outcome, Count: 1}
	}

	return a.decide(outcome), nil
}

func (a *Aggregator) decide(outcome Outcome) Decision {
	switch a.policy {
	case PolicyExitOnPass:
		if outcome == Accepted {
			return StopAccepted
		}
	case PolicyExitOnFail:
		if outcome == Rejected {
			return StopRejected
		}
	case PolicyExitOnUnknown:
		if outcome == Unknown {
			return StopUnknown
		}
	}
	return Continue
}
