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

// Package rendezvous implements the cross-thread barrier ("S" in the
// design) that lines racing worker threads up at the start and end of
// every litmus-test iteration. Two interchangeable implementations are
// provided: Spinner, a busy-wait barrier with the lowest release latency
// (and so the one most likely to surface weak behaviours), and Barrier,
// a condvar-gated barrier that parks blocked goroutines instead of
// burning a core. Both satisfy the same Synchroniser contract and the
// engine treats them as drop-in replacements for one another.
package rendezvous

// Synchroniser is the contract a barrier implementation must satisfy.
// Wait is called once per phase per participant; phases alternate
// pre/post for the participant's lifetime. On release, exactly one
// caller observes leader == true for that phase.
type Synchroniser interface {
	// Wait blocks the caller until all N participants configured at
	// construction have called Wait for the current phase, then
	// releases them all. Exactly one caller's invocation returns
	// leader == true.
	Wait(tid int) (leader bool)
}
