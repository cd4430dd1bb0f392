// Package secret seals short-lived flow state (the PKCE verifier) so it can
// round-trip through the user's browser instead of server-side session
// storage. Statelessness across the login redirect hop is deliberate.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrMalformedCiphertext is returned for any token that does not decrypt
// cleanly: bad encoding, truncation, tampering or the wrong key.
var ErrMalformedCiphertext = errors.New("secret: malformed ciphertext")

// Codec encrypts and decrypts opaque string tokens with AES-256-GCM. The key
// is derived once from the configured secret and stays fixed for the process
// lifetime. Each Encrypt call uses a fresh random nonce, prepended to the
// ciphertext so decryption is self-contained.
type Codec struct {
	aead cipher.AEAD
}

func NewCodec(secretKey string) (*Codec, error) {
	key := sha256.Sum256([]byte(secretKey))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("secret: cipher init failed: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("secret: gcm init failed: %w", err)
	}
	return &Codec{aead: aead}, nil
}

func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secret: nonce generation failed: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *Codec) Decrypt(encrypted string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrMalformedCiphertext
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	return string(plaintext), nil
}
