// Package permute implements the Permuter ("P" in the design): the
// policy that decides the order in which the Runner releases threads at
// the pre-barrier for a given iteration. On a perfect barrier release
// order wouldn't matter, but real barriers have staggered wake-up, and
// varying that order iteration-to-iteration surfaces weak behaviours a
// fixed order would miss.
package permute

import "math/rand"

// Permuter produces, for each iteration, a permutation of [0, n) that
// the Runner uses to order pre-barrier releases.
type Permuter interface {
	// Permute returns a permutation of [0, n). Implementations that
	// don't vary per call (Static) may return the same slice; callers
	// must not mutate the result.
	Permute(n int) []int
}

// Static is the identity permuter: every iteration releases threads in
// tid order.
type Static struct{}

// Permute implements Permuter.
func (Static) Permute(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Random draws a fresh uniform shuffle every iteration from a single
// engine-seeded PRNG. Per spec.md §5, the PRNG is owned by the runner
// thread — Random is not safe for concurrent use by multiple goroutines,
// matching that ownership rule.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random permuter seeded with seed. Passing the same
// seed across runs reproduces the same sequence of permutations, which
// is useful for debugging a specific weak-behaviour discovery.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Permute implements Permuter using a Fisher-Yates shuffle.
func (r *Random) Permute(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	r.rng.Shuffle(n, func(i, j int) { p[i], p[j] = p[j], p[i] })
	return p
}
