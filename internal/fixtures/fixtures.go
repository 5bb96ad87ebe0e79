// Package fixtures supplies a handful of in-process TestModule
// implementations of the seed scenarios in spec.md §8. These exist to
// exercise the engine's own test suite (and the CLI's --builtin= demo
// flag); they are not a litmus-test source language, and writing
// arbitrary litmus tests remains out of scope for this repository.
package fixtures

import (
	"github.com/dijkstracula/phenolphthalein/internal/env"
	"github.com/dijkstracula/phenolphthalein/internal/module"
)

// storeBuffering implements the classic SB (store-buffering) litmus
// test: spec.md §8 scenario 1.
//
//	Thread 0: r0 = load(x); store(y, 1)
//	Thread 1: r0 = load(y); store(x, 1)
//
// Check accepts (x,y)==(1,1) with (0:r0,1:r0) in
// {(0,0),(0,1),(1,0)} — the states sequential consistency forbids
// ((1,1) paired with (1,1) on both registers) are the weak behaviour
// this test exists to surface.
type storeBuffering struct{}

// StoreBuffering returns the SB litmus test fixture.
func StoreBuffering() module.TestModule { return storeBuffering{} }

func (storeBuffering) Manifest() env.Manifest {
	return env.Manifest{
		NThreads:          2,
		AtomicInitials:    []int32{0, 0},
		AtomicNames:       []string{"x", "y"},
		NonAtomicInitials: []int32{0, 0},
		NonAtomicNames:    []string{"0:r0", "1:r0"},
	}
}

func (storeBuffering) Test(tid int, e *env.Env) {
	switch tid {
	case 0:
		r0 := e.Atomic[0].Load()
		e.Atomic[1].Store(1)
		e.SetNonAtomic(0, r0)
	case 1:
		r0 := e.Atomic[1].Load()
		e.Atomic[0].Store(1)
		e.SetNonAtomic(1, r0)
	}
}

func (storeBuffering) Check(e *env.Env) bool {
	x, y := e.GetAtomic(0), e.GetAtomic(1)
	if x != 1 || y != 1 {
		return false
	}
	r0, r1 := e.GetNonAtomic(0), e.GetNonAtomic(1)
	switch {
	case r0 == 0 && r1 == 0:
		return true
	case r0 == 0 && r1 == 1:
		return true
	case r0 == 1 && r1 == 0:
		return true
	default:
		return false
	}
}

// alwaysTrue wraps storeBuffering with a Check that unconditionally
// accepts: spec.md §8 scenario 2, used to prove a --check=exit-on-fail
// run completes every requested iteration without stopping early.
type alwaysTrue struct{ storeBuffering }

// StoreBufferingAlwaysAccept returns the scenario-2 fixture.
func StoreBufferingAlwaysAccept() module.TestModule { return alwaysTrue{} }

func (alwaysTrue) Check(*env.Env) bool { return true }

// alwaysFalse wraps storeBuffering with a Check that unconditionally
// rejects: spec.md §8 scenario 3, used with --check=exit-on-fail to
// prove the engine stops within the first couple of observations.
type alwaysFalse struct{ storeBuffering }

// StoreBufferingAlwaysReject returns the scenario-3 fixture.
func StoreBufferingAlwaysReject() module.TestModule { return alwaysFalse{} }

func (alwaysFalse) Check(*env.Env) bool { return false }

// counter implements both the single-thread reseed probe (spec.md §8
// scenario 4) and the thread-rotation leak probe (scenario 5): a lone
// thread increments one atomic cell by one per iteration, and Check
// confirms it started from exactly Init.
type counter struct {
	Init int32
}

// SingleThreadCounter returns a one-thread fixture whose Check accepts
// iff the cell equals init+1, proving reseed restored init beforehand
// (spec.md §8 scenario 4).
func SingleThreadCounter(init int32) module.TestModule { return counter{Init: init} }

// RotationProbe returns the same fixture for use as the thread-rotation
// leak probe (spec.md §8 scenario 5): run with Period>0, every iteration
// — regardless of which epoch it falls in — must still observe Init
// before incrementing, which Check verifies indirectly by requiring the
// post-increment value to always be exactly Init+1.
func RotationProbe(init int32) module.TestModule { return counter{Init: init} }

func (c counter) Manifest() env.Manifest {
	return env.Manifest{
		NThreads:       1,
		AtomicInitials: []int32{c.Init},
		AtomicNames:    []string{"x"},
	}
}

func (counter) Test(_ int, e *env.Env) {
	e.Atomic[0].Store(e.Atomic[0].Load() + 1)
}

func (c counter) Check(e *env.Env) bool {
	return e.GetAtomic(0) == c.Init+1
}
