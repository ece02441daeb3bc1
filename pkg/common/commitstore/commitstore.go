package commitstore

// Commitment is one immutable entry of the commitment ledger.
// Seq is assigned by the store on append and strictly increases.
type Commitment struct {
	Digest []byte
	Seq    uint64
}

// CommitStore is an append-only set of commitments addressed by an opaque
// ref. Entries are never deleted or updated; supersession is tracked by the
// invalidation set, not here. No enumeration-by-key is exposed: lookups
// require possession of a ref.
type CommitStore interface {
	Append(ref string, commitment *Commitment) error
	Get(ref string) (*Commitment, error)
	Contains(ref string) (bool, error)
}
