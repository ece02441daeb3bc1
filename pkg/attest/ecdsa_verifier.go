package attest

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/0xrafi/degen-score/pkg/common/attest"
)

var (
	ErrNilPublicKey       = errors.New("attest: nil public key")
	ErrMalformedSignature = errors.New("attest: malformed signature")
)

// ECDSAVerifier accepts a mutation only when the attestation is a valid
// secp256k1 signature over Digest(key, payload) by the configured authority.
type ECDSAVerifier struct {
	pub *secp256k1.PublicKey
}

var _ attest.Verifier = (*ECDSAVerifier)(nil)

func NewECDSAVerifier(pub *secp256k1.PublicKey) (*ECDSAVerifier, error) {
	if pub == nil {
		return nil, ErrNilPublicKey
	}
	return &ECDSAVerifier{pub: pub}, nil
}

func (v *ECDSAVerifier) Verify(att attest.Attestation, key, payload []byte) error {
	sig, err := ecdsa.ParseDERSignature(att)
	if err != nil {
		return ErrMalformedSignature
	}

	if !sig.Verify(Digest(key, payload), v.pub) {
		return attest.ErrUnauthorized
	}

	return nil
}

// Digest is the message an attestation authority signs to authorize writing
// payload to key's record.
func Digest(key, payload []byte) []byte {
	h := sha3.New256()
	h.Write([]byte("degen-attestation"))
	h.Write(key)
	h.Write(payload)
	return h.Sum(nil)
}
