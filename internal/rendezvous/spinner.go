package rendezvous

import "sync/atomic"

// Spinner is a busy-wait barrier: participants that are not the last to
// arrive spin-read a generation counter rather than parking, trading CPU
// for the lowest possible release latency. spec.md §4.S calls this out
// as the default because low release latency surfaces more weak
// behaviours; it is a different experiment from Barrier, not merely a
// faster version of it.
//
// The arrival/generation pair is the same "register on arrival, last
// arriver flips state and releases everyone" shape as ilock.Mutex's
// register*/​*Unlock methods, specialized down from four independent
// lock states to a single two-phase rendezvous point. Registration here
// is a single atomic increment rather than a CAS loop.
type Spinner struct {
	n          int64
	arrived    atomic.Int64
	generation atomic.Uint64
}

// NewSpinner returns a Spinner for exactly n participants.
func NewSpinner(n int) *Spinner {
	return &Spinner{n: int64(n)}
}

// Wait implements Synchroniser.
func (s *Spinner) Wait(tid int) (leader bool) {
	gen := s.generation.Load()
	if s.arrived.Add(1) == s.n {
		s.arrived.Store(0)
		s.generation.Add(1)
		return true
	}
	for s.generation.Load() == gen {
		// Busy-wait: no yield, no syscall. This is the whole point of
		// the spinner variant; see package doc.
	}
	return false
}
