package cryptography

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i * 7)
	}
	return key
}

func TestNewTemplateCipherRejectsBadKeyLength(t *testing.T) {
	for _, size := range []int{0, 16, 24, 31, 33} {
		_, err := NewTemplateCipher(make([]byte, size))
		assert.Error(t, err, "key of %d bytes must be rejected", size)
	}
}

func TestTemplateCipherRoundTrip(t *testing.T) {
	cipher, err := NewTemplateCipher(testKey())
	require.NoError(t, err)

	plaintext := []byte("512 floats worth of template bytes")
	sealed, err := cipher.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := cipher.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestTemplateCipherNoncesAreUnique(t *testing.T) {
	cipher, err := NewTemplateCipher(testKey())
	require.NoError(t, err)

	first, err := cipher.Encrypt([]byte("same payload"))
	require.NoError(t, err)
	second, err := cipher.Encrypt([]byte("same payload"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTemplateCipherDetectsTampering(t *testing.T) {
	cipher, err := NewTemplateCipher(testKey())
	require.NoError(t, err)

	sealed, err := cipher.Encrypt([]byte("authentic"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0x01

	_, err = cipher.Decrypt(sealed)
	assert.Error(t, err)
}

func TestTemplateCipherRejectsOtherKey(t *testing.T) {
	first, err := NewTemplateCipher(testKey())
	require.NoError(t, err)
	second, err := NewTemplateCipher(make([]byte, 32))
	require.NoError(t, err)

	sealed, err := first.Encrypt([]byte("authentic"))
	require.NoError(t, err)

	_, err = second.Decrypt(sealed)
	assert.Error(t, err)
}

func TestTemplateCipherRejectsTruncatedPayload(t *testing.T) {
	cipher, err := NewTemplateCipher(testKey())
	require.NoError(t, err)

	_, err = cipher.Decrypt([]byte{1, 2, 3})
	assert.Error(t, err)
}
