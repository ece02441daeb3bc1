package record

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	com_commitment "github.com/0xrafi/degen-score/pkg/common/commitment"
)

// deriveSlot maps a key to its private lookup slot with a keyed BLAKE3
// hash. Without the owner secret the slot is underivable, so outsiders
// cannot locate a key's commitments.
func deriveSlot(secret, key []byte) ([]byte, error) {
	h, err := blake3.NewKeyed(secret)
	if err != nil {
		return nil, fmt.Errorf("record: derive slot: %w", err)
	}
	_, _ = h.WriteString("degen-slot")
	_, _ = h.Write(key)
	return h.Sum(nil), nil
}

// deriveTag computes the invalidation tag of a commitment. Producing it
// requires the opening data, so only the holder can supersede a commitment,
// and the tag says nothing about which commitment it kills.
func deriveTag(opening com_commitment.Opening, digest com_commitment.Digest) []byte {
	h := sha3.New256()
	h.Write([]byte("degen-invalidation-tag"))
	h.Write(opening)
	h.Write(digest)
	return h.Sum(nil)
}

// deriveOwnerTag binds a payload to its owner so a commitment cannot be
// opened or claimed by another party.
func deriveOwnerTag(secret, key []byte) []byte {
	h := sha3.New256()
	h.Write([]byte("degen-owner"))
	h.Write(secret)
	h.Write(key)
	return h.Sum(nil)
}

func slotKey(slot []byte) string {
	return hex.EncodeToString(slot)
}
