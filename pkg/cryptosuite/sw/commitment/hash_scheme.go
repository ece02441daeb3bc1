package commitment

import (
	"github.com/0xrafi/degen-score/core/hash"
	com_commitment "github.com/0xrafi/degen-score/pkg/common/commitment"
)

// HashScheme commits with the domain-separated BLAKE3 commitment hash:
// digest = h(slot, payload, decommitment) with fresh randomness.
type HashScheme struct{}

var _ com_commitment.Scheme = (*HashScheme)(nil)

func NewHashScheme() *HashScheme {
	return &HashScheme{}
}

func (s *HashScheme) Commit(slot, payload []byte) (com_commitment.Digest, com_commitment.Opening, error) {
	c, d, err := hash.New().Commit(slot, payload)
	if err != nil {
		return nil, nil, err
	}
	return com_commitment.Digest(c), com_commitment.Opening(d), nil
}

func (s *HashScheme) Verify(digest com_commitment.Digest, opening com_commitment.Opening, slot, payload []byte) bool {
	return hash.New().Decommit(hash.Commitment(digest), hash.Decommitment(opening), slot, payload)
}
