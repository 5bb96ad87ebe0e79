// Package engine implements the Runner and Worker ("R" and "W" in the
// design): the top-level execution engine that drives a resolved test
// module through many iterations in parallel, coordinates per-iteration
// thread synchronisation, reclaims and reseeds the shared environment,
// classifies observed states, and aggregates statistics.
package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/dijkstracula/phenolphthalein/internal/histogram"
	"github.com/dijkstracula/phenolphthalein/internal/permute"
	"github.com/dijkstracula/phenolphthalein/internal/rendezvous"
)

// Config mirrors the engine-facing part of the CLI surface of spec.md
// §6, one field per flag that configures the engine, plus a Logger.
// --output-type and --builtin are handled by the CLI alone and have no
// field here.
type Config struct {
	// Iterations is the iteration cap; 0 means unbounded.
	Iterations int
	// Period is the thread-rotation period, in iterations; 0 means
	// never rotate.
	Period int
	// Sync selects the Synchroniser implementation.
	Sync rendezvous.Kind
	// Permute selects the Permuter implementation.
	Permute permute.Kind
	// Seed seeds the Random permuter. Ignored by Static.
	Seed int64
	// Check selects the check policy.
	Check histogram.CheckPolicy
	// Logger receives structured diagnostics. Defaults to a discarding
	// logger if nil.
	Logger logrus.FieldLogger
}

// DefaultConfig returns the configuration matching the CLI's documented
// defaults: unbounded iterations, no rotation, spinner synchroniser,
// static permuter, and check=report.
func DefaultConfig() Config {
	return Config{
		Iterations: 0,
		Period:     0,
		Sync:       rendezvous.Spin,
		Permute:    permute.StaticKind,
		Seed:       1,
		Check:      histogram.PolicyReport,
	}
}
