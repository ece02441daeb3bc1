package record

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/0xrafi/degen-score/pkg/common/attest"
)

// Payload is the confidential content of a record: one score plus an
// owner-binding tag, so a commitment cannot be claimed by a non-owner.
type Payload struct {
	Score    int64
	OwnerTag []byte
}

// Bytes encodes the payload for committing.
func (p *Payload) Bytes() ([]byte, error) {
	return cbor.Marshal(p)
}

// PayloadFromBytes decodes a payload previously encoded with Bytes.
func PayloadFromBytes(data []byte) (Payload, error) {
	var p Payload
	if err := cbor.Unmarshal(data, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

// Records is the per-key record lifecycle: initialize exactly once, then
// replace any number of times, with exactly one live commitment per key at
// any moment.
type Records interface {
	// Initialize creates the first commitment for key. At most one call per
	// key may succeed.
	Initialize(key []byte, payload Payload) error

	// Replace supersedes the current live commitment with one holding
	// payload. The caller drives retries on contention.
	Replace(key []byte, payload Payload) error

	// Update runs the full replace protocol with a bounded retry loop:
	// read the live payload, compute its successor via next, check the
	// attestation, then replace. On contention it re-reads and retries.
	Update(key []byte, att attest.Attestation, next func(Payload) (Payload, error)) (Payload, error)

	// Read opens the live commitment and returns its payload.
	Read(key []byte) (Payload, error)
}
