package attest

import (
	"github.com/0xrafi/degen-score/pkg/common/attest"
)

// OpenVerifier accepts every attestation. It reproduces the unguarded
// policy where anyone naming a key may replace its record; production
// deployments should plug in ECDSAVerifier instead.
type OpenVerifier struct{}

var _ attest.Verifier = (*OpenVerifier)(nil)

func NewOpenVerifier() *OpenVerifier {
	return &OpenVerifier{}
}

func (v *OpenVerifier) Verify(att attest.Attestation, key, payload []byte) error {
	return nil
}
