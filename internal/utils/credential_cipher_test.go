package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialCipher_EncryptDecrypt(t *testing.T) {
	c, err := NewCredentialCipher("unit-test-secret")
	require.NoError(t, err)

	enc, err := c.Encrypt("jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, enc)
	assert.NotContains(t, enc, "jane")

	again, err := c.Encrypt("jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, enc, again, "nonce must make ciphertexts differ")

	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", dec)
}

func TestCredentialCipher_Blank(t *testing.T) {
	c, err := NewCredentialCipher("unit-test-secret")
	require.NoError(t, err)

	enc, err := c.Encrypt("  ")
	require.NoError(t, err)
	assert.Empty(t, enc)

	dec, err := c.Decrypt("")
	require.NoError(t, err)
	assert.Empty(t, dec)
}

func TestCredentialCipher_WrongKey(t *testing.T) {
	a, err := NewCredentialCipher("key-a")
	require.NoError(t, err)
	b, err := NewCredentialCipher("key-b")
	require.NoError(t, err)

	enc, err := a.Encrypt("secret")
	require.NoError(t, err)
	_, err = b.Decrypt(enc)
	assert.Error(t, err)

	_, err = a.Decrypt("%%%")
	assert.Error(t, err)

	_, err = NewCredentialCipher("")
	assert.Error(t, err)
}
