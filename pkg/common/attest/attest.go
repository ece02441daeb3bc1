package attest

import "errors"

// ErrUnauthorized signals that an attestation does not authorize the
// attempted mutation.
var ErrUnauthorized = errors.New("attest: unauthorized")

// Attestation is an opaque external proof of authorization to mutate a
// given key's record.
type Attestation []byte

// Verifier decides whether att authorizes writing payload to key's record.
type Verifier interface {
	Verify(att Attestation, key, payload []byte) error
}
