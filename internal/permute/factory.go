package permute

import (
	"errors"
	"fmt"
)

// ErrInvalidKind is returned by New for an unrecognised --permute value.
var ErrInvalidKind = errors.New("permute: invalid permuter kind")

// Kind selects a Permuter implementation, mirroring the --permute CLI
// flag (spec.md §6).
type Kind string

const (
	StaticKind Kind = "static"
	RandomKind Kind = "random"
)

// New constructs the Permuter named by kind. seed is only consulted for
// RandomKind.
func New(kind Kind, seed int64) (Permuter, error) {
	switch kind {
	case StaticKind:
		return Static{}, nil
	case RandomKind:
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("%w: --permute=%q", ErrInvalidKind, kind)
	}
}
