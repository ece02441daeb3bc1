package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryVault(t *testing.T) {
	v := NewInMemoryVault()

	_, err := v.Get("ref-1")
	assert.ErrorIs(t, err, ErrOpeningNotFound)

	assert.NoError(t, v.Import("ref-1", []byte("opening")))

	opening, err := v.Get("ref-1")
	assert.NoError(t, err)
	assert.Equal(t, []byte("opening"), opening)

	assert.NoError(t, v.Delete("ref-1"))
	_, err = v.Get("ref-1")
	assert.ErrorIs(t, err, ErrOpeningNotFound)
}
