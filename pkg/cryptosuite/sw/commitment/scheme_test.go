package commitment

import (
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"

	"github.com/0xrafi/degen-score/core/pedersen"
	com_commitment "github.com/0xrafi/degen-score/pkg/common/commitment"
)

const testModulusHex = "c7970ceedcc3b0754490201a7aa613cd73911081c790f5f1a8726f463550bb5b7ff0db8e1ea1189ec72f93d1650011bd721aeeacc2acde32a04107f0648c2813"

func testSchemes(t *testing.T) map[string]com_commitment.Scheme {
	t.Helper()

	nBig, ok := new(big.Int).SetString(testModulusHex, 16)
	assert.True(t, ok)
	params, err := pedersen.New(
		saferith.ModulusFromBytes(nBig.Bytes()),
		new(saferith.Nat).SetUint64(4),
		new(saferith.Nat).SetUint64(9),
	)
	assert.NoError(t, err)

	return map[string]com_commitment.Scheme{
		"hash":     NewHashScheme(),
		"pedersen": NewPedersenScheme(params),
	}
}

func TestScheme_CommitVerify(t *testing.T) {
	slot := []byte("slot")
	payload := []byte("payload")

	for name, scheme := range testSchemes(t) {
		t.Run(name, func(t *testing.T) {
			digest, opening, err := scheme.Commit(slot, payload)
			assert.NoError(t, err)

			assert.True(t, scheme.Verify(digest, opening, slot, payload))
			assert.False(t, scheme.Verify(digest, opening, slot, []byte("other")))
			assert.False(t, scheme.Verify(digest, opening, []byte("other"), payload))
		})
	}
}

func TestScheme_Hiding(t *testing.T) {
	slot := []byte("slot")
	payload := []byte("payload")

	for name, scheme := range testSchemes(t) {
		t.Run(name, func(t *testing.T) {
			d1, o1, err := scheme.Commit(slot, payload)
			assert.NoError(t, err)
			d2, o2, err := scheme.Commit(slot, payload)
			assert.NoError(t, err)

			// fresh randomness: same content, different digests
			assert.NotEqual(t, d1, d2)
			assert.NotEqual(t, o1, o2)
		})
	}
}
