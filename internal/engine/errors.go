package engine

import "errors"

// Configuration errors (spec.md §7, kind 1).
var ErrInvalidConfig = errors.New("engine: invalid configuration")

// Resource errors (spec.md §7, kind 2): allocation failure during
// startup or epoch rotation. Fatal; any iterations already observed are
// still returned alongside the error.
var ErrResourceAllocation = errors.New("engine: resource allocation failed")
