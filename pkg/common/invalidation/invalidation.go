package invalidation

import "errors"

// ErrDuplicateTag signals that a tag was already emitted. This is the
// single-winner gate: of two replaces racing on the same live commitment,
// exactly one Emit succeeds.
var ErrDuplicateTag = errors.New("invalidation: tag already emitted")

// Set is an append-only set of invalidation tags. A commitment is live
// until the tag derived from its opening data appears here.
type Set interface {
	// Emit inserts tag, failing with ErrDuplicateTag on replay.
	Emit(tag []byte) error

	// Contains reports whether tag has been emitted.
	Contains(tag []byte) (bool, error)
}
