// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package env implements the shared mutable environment ("E" in the
// design) that a litmus test's threads race against during a single
// iteration: one contiguous array per supported cell type, each
// addressable without further locking by the test's dispatcher.
//
// The environment is handed out as a reference-counted value so that an
// observer thread can retain a snapshot after the run proceeds to reseed
// or rotate, without the refcount word itself ever being visible through
// the raw cell arrays the test body touches. See Manifest for how an
// Env's shape is described, and Snapshot for how a post-iteration State
// is captured.
package env

import (
	"sync/atomic"
)

// Manifest is the immutable, compile-time description of a test's
// environment: thread count, and for each supported cell type, the
// count, human-readable names, and initial values. Adding a new cell
// type means adding a new (count, initials, names) tuple here, a new
// backing array in Env, and matching handling in Reseed, State,
// Snapshot and the histogram's state key.
type Manifest struct {
	NThreads int

	AtomicInitials []int32
	AtomicNames    []string

	NonAtomicInitials []int32
	NonAtomicNames    []string
}

// Validate reports a configuration error in the manifest: the engine
// refuses to start a run against a manifest it cannot service.
func (m Manifest) Validate() error {
	if m.NThreads <= 0 {
		return ErrZeroThreads
	}
	if len(m.AtomicNames) != len(m.AtomicInitials) {
		return ErrManifestShape
	}
	if len(m.NonAtomicNames) != len(m.NonAtomicInitials) {
		return ErrManifestShape
	}
	return nil
}

// NAtomic is the number of atomic int32 cells described by the manifest.
func (m Manifest) NAtomic() int { return len(m.AtomicInitials) }

// NNonAtomic is the number of non-atomic int32 cells described by the manifest.
func (m Manifest) NNonAtomic() int { return len(m.NonAtomicInitials) }

// Env is the shared environment for one iteration (or, across a
// thread-rotation epoch, several iterations). Its two cell arrays are
// the only memory the test body is permitted to touch; refCount lives
// outside of both, in a private companion word, so that it is never
// reachable through a pointer the test ABI hands to test code (see the
// internal/env entry in DESIGN.md).
type Env struct {
	Atomic    []atomic.Int32
	NonAtomic []int32

	manifest Manifest
	refCount *atomic.Int32
}

// New allocates a fresh Env from a manifest and seeds it with the
// manifest's initial values. Returned with a refcount of 1; the caller
// owns that first reference.
func New(m Manifest) (*Env, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	e := &Env{
		Atomic:    make([]atomic.Int32, m.NAtomic()),
		NonAtomic: make([]int32, m.NNonAtomic()),
		manifest:  m,
		refCount:  new(atomic.Int32),
	}
	e.refCount.Store(1)
	e.reseedLocked()
	return e, nil
}

// Acquire increments the shared refcount and returns the same Env,
// matching the "shared by all workers for the duration of an iteration
// window" lifetime described in spec.md §3.
func (e *Env) Acquire() *Env {
	e.refCount.Add(1)
	return e
}

// Release decrements the shared refcount. The backing arrays are
// dropped (eligible for GC) once the last holder releases; there is no
// explicit free in Go, but callers must stop dereferencing e after this
// returns true.
func (e *Env) Release() (last bool) {
	return e.refCount.Add(-1) == 0
}

// Reseed resets every cell to the manifest's initial value. Per
// spec.md's invariants, this must only be called between the
// post-barrier of one iteration and the pre-barrier of the next, by the
// single designated reseeder.
func (e *Env) Reseed() {
	e.reseedLocked()
}

func (e *Env) reseedLocked() {
	for i, v := range e.manifest.AtomicInitials {
		e.Atomic[i].Store(v)
	}
	copy(e.NonAtomic, e.manifest.NonAtomicInitials)
}

// GetAtomic is a bounds-checked accessor for use outside of a running
// iteration (e.g. instrumentation, tests). Out-of-range reads return
// the zero value rather than panicking — the spec requires this so a
// malformed test cannot induce undefined behaviour in the engine.
func (e *Env) GetAtomic(i int) int32 {
	if i < 0 || i >= len(e.Atomic) {
		return 0
	}
	return e.Atomic[i].Load()
}

// SetAtomic is the bounds-checked write counterpart to GetAtomic.
// Out-of-range writes are silently ignored.
func (e *Env) SetAtomic(i int, v int32) {
	if i < 0 || i >= len(e.Atomic) {
		return
	}
	e.Atomic[i].Store(v)
}

// GetNonAtomic is the non-atomic-cell counterpart to GetAtomic.
func (e *Env) GetNonAtomic(i int) int32 {
	if i < 0 || i >= len(e.NonAtomic) {
		return 0
	}
	return e.NonAtomic[i]
}

// SetNonAtomic is the non-atomic-cell counterpart to SetAtomic.
func (e *Env) SetNonAtomic(i int, v int32) {
	if i < 0 || i >= len(e.NonAtomic) {
		return
	}
	e.NonAtomic[i] = v
}

// Manifest returns the manifest this Env was built from.
func (e *Env) Manifest() Manifest { return e.manifest }

// State is the tuple of every cell's value at a post-barrier, compared
// by value equality and usable as an aggregation key once encoded (see
// internal/histogram).
type State struct {
	Atomic    []int32
	NonAtomic []int32
}

// Snapshot captures the current values of every cell into a State.
// buf, if non-nil and correctly sized, is reused to avoid an allocation
// on the observer's hot path (spec.md §4.W: workers must not allocate
// inside the hot loop; snapshot buffers are preallocated per worker).
func (e *Env) Snapshot(buf *State) State {
	var s State
	if buf != nil && len(buf.Atomic) == len(e.Atomic) && len(buf.NonAtomic) == len(e.NonAtomic) {
		s = *buf
	} else {
		s = State{
			Atomic:    make([]int32, len(e.Atomic)),
			NonAtomic: make([]int32, len(e.NonAtomic)),
		}
	}
	for i := range e.Atomic {
		s.Atomic[i] = e.Atomic[i].Load()
	}
	copy(s.NonAtomic, e.NonAtomic)
	return s
}
