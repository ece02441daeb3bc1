package commitment

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/cronokirby/saferith"
	"golang.org/x/crypto/sha3"

	"github.com/0xrafi/degen-score/core/pedersen"
	"github.com/0xrafi/degen-score/lib/params"
	com_commitment "github.com/0xrafi/degen-score/pkg/common/commitment"
)

// PedersenScheme commits with C = Sˣ·Tʳ (mod N), where x is the payload
// hashed to an exponent and r is fresh randomness. Drop-in alternative to
// HashScheme for deployments that want an algebraic commitment.
type PedersenScheme struct {
	params *pedersen.Parameters
}

var _ com_commitment.Scheme = (*PedersenScheme)(nil)

func NewPedersenScheme(params *pedersen.Parameters) *PedersenScheme {
	return &PedersenScheme{params: params}
}

func (s *PedersenScheme) Commit(slot, payload []byte) (com_commitment.Digest, com_commitment.Opening, error) {
	r := make([]byte, params.SecBytes)
	if _, err := rand.Read(r); err != nil {
		return nil, nil, fmt.Errorf("pedersen scheme: failed to generate randomness: %w", err)
	}

	c := s.params.Commit(exponent(slot, payload), new(saferith.Nat).SetBytes(r))

	return com_commitment.Digest(c.Bytes()), com_commitment.Opening(r), nil
}

func (s *PedersenScheme) Verify(digest com_commitment.Digest, opening com_commitment.Opening, slot, payload []byte) bool {
	if len(digest) == 0 || len(opening) != params.SecBytes {
		return false
	}

	c := s.params.Commit(exponent(slot, payload), new(saferith.Nat).SetBytes(opening))

	return bytes.Equal(c.Bytes(), digest)
}

// exponent maps (slot, payload) to the committed value.
func exponent(slot, payload []byte) *saferith.Nat {
	h := sha3.New256()
	h.Write([]byte("degen-pedersen-exponent"))
	h.Write(slot)
	h.Write(payload)
	return new(saferith.Nat).SetBytes(h.Sum(nil))
}
