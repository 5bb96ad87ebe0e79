// Package module describes the contract the engine requires from a
// loaded litmus test (the "M" component): a manifest, a thread-body
// dispatcher, and a postcondition. Resolving an on-disk compiled test
// into one of these is the dynamic-loader's job and is out of scope
// here — the engine only ever sees an already-resolved TestModule.
package module

import "github.com/dijkstracula/phenolphthalein/internal/env"

// TestModule is the opaque handle the engine drives. The engine never
// interprets test code; it only calls these three entry points in the
// sequence the runner dictates.
type TestModule interface {
	// Manifest describes the shape of the environment the test needs.
	Manifest() env.Manifest

	// Test executes thread tid's body against the shared environment.
	// tid is in [0, Manifest().NThreads).
	Test(tid int, e *env.Env)

	// Check classifies the post-iteration state. It must be a pure
	// function of e's current cell values.
	Check(e *env.Env) bool
}

// ABI documents the bit-exact layout (spec.md §6) that an externally
// compiled test module would need to present to a future dynamic loader.
// Nothing in this engine constructs or consumes these types — dynamic
// loading is out of scope — but they pin the compatibility boundary so a
// loader, when written, has an unambiguous target.
//
//	manifest struct {
//	    n_threads             uintptr
//	    n_atomic_int32        uintptr
//	    atomic_int32_initials *int32
//	    atomic_int32_names    **byte // C-string array
//	    n_int32               uintptr
//	    int32_initials        *int32
//	    int32_names           **byte
//	}
//
//	env struct {
//	    n_atomic_int32 uintptr
//	    atomic_int32   *int32 // ABI-compatible with the platform's native atomic int32
//	    n_int32        uintptr
//	    int32          *int32
//	    priv           unsafe.Pointer // reserved; test code must not touch it
//	}
//
// The prior variant that packed a refcount directly inside the public
// env struct (so that it was reachable through the same pointer test
// code holds) is a legacy design this engine does not propagate; see
// internal/env's private refCount word.
type ABI struct{}
