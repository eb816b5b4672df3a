package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	enc, err := EncryptString(key, "sk-upstream-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-upstream-secret", enc)

	dec, err := DecryptString(key, enc)
	require.NoError(t, err)
	assert.Equal(t, "sk-upstream-secret", dec)
}

func TestNonceMakesCiphertextsDiffer(t *testing.T) {
	key := make([]byte, 32)
	a, err := EncryptString(key, "same")
	require.NoError(t, err)
	b, err := EncryptString(key, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	key := make([]byte, 32)
	other := make([]byte, 32)
	other[0] = 1

	enc, err := EncryptString(key, "secret")
	require.NoError(t, err)

	_, err = DecryptString(other, enc)
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	key := make([]byte, 32)
	_, err := DecryptString(key, "not base64 at all ***")
	assert.Error(t, err)

	_, err = DecryptString(key, "QQ==") // too short for a nonce
	assert.Error(t, err)
}
