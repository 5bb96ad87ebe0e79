package env

import "errors"

// Configuration errors (spec.md §7, kind 1): reported before any worker
// starts, fatal.
var (
	ErrZeroThreads   = errors.New("env: manifest declares zero threads")
	ErrManifestShape = errors.New("env: manifest cell names/initials length mismatch")
)
