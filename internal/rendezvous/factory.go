package rendezvous

import "fmt"

// Kind selects a Synchroniser implementation, mirroring the --sync CLI
// flag (spec.md §6).
type Kind string

const (
	Spin  Kind = "spinner"
	Block Kind = "barrier"
)

// New constructs the Synchroniser named by kind for n participants.
func New(kind Kind, n int) (Synchroniser, error) {
	switch kind {
	case Spin:
		return NewSpinner(n), nil
	case Block:
		return NewBarrier(n), nil
	default:
		return nil, fmt.Errorf("%w: --sync=%q", ErrInvalidKind, kind)
	}
}
