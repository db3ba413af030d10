package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt(t *testing.T) {
	h := &Bcrypt{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, h.Compare(hash, "s3cret"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrMismatch)

	again, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestBcrypt_TooLong(t *testing.T) {
	_, err := NewBcrypt().Hash(string(make([]byte, 73)))
	assert.Error(t, err)
}
