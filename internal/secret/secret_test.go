package secret

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	codec, err := NewCodec("process-secret")
	require.NoError(t, err)

	for _, plaintext := range []string{
		"",
		"slack_oauth",
		"a",
		"Jk2ZsLs0-e1Ys7hS6o0yq0J3kCkR1xWvPq8cJ1nT0aE",
		"héllo wörld ünïcode",
	} {
		encrypted, err := codec.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := codec.Decrypt(encrypted)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	codec, err := NewCodec("process-secret")
	require.NoError(t, err)

	first, err := codec.Encrypt("verifier")
	require.NoError(t, err)
	second, err := codec.Encrypt("verifier")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptRejectsTampering(t *testing.T) {
	codec, err := NewCodec("process-secret")
	require.NoError(t, err)

	encrypted, err := codec.Encrypt("verifier")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(encrypted)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01

	_, err = codec.Decrypt(base64.RawURLEncoding.EncodeToString(raw))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	codec, err := NewCodec("process-secret")
	require.NoError(t, err)

	for _, bad := range []string{
		"",
		"%%%not-base64%%%",
		"c2hvcnQ", // valid base64, shorter than a nonce
	} {
		_, err := codec.Decrypt(bad)
		assert.ErrorIs(t, err, ErrMalformedCiphertext, "input %q", bad)
	}
}

func TestDecryptRejectsOtherKey(t *testing.T) {
	one, err := NewCodec("key-one")
	require.NoError(t, err)
	two, err := NewCodec("key-two")
	require.NoError(t, err)

	encrypted, err := one.Encrypt("verifier")
	require.NoError(t, err)

	_, err = two.Decrypt(encrypted)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}
