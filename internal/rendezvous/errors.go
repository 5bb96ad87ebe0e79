package rendezvous

import "errors"

var ErrInvalidKind = errors.New("rendezvous: invalid synchroniser kind")
