// Package cryptox implements the credential-protection primitives: the
// authenticated cipher used for stored secret payloads and the one-way
// hashing of user login passwords.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/pashield/pashield/internal/common"
)

const keyLength = 32

// DeriveKey stretches the configured encryption secret to exactly 32 bytes:
// shorter secrets are right-padded with ASCII spaces, longer ones truncated.
// The derivation is deterministic, so the same configured secret always
// yields the same AES-256 key.
func DeriveKey(secret string) []byte {
	key := make([]byte, keyLength)
	for i := range key {
		key[i] = ' '
	}
	copy(key, secret)
	return key
}

// Cipher encrypts and decrypts secret payload strings with AES-256-GCM
// under a fixed key derived from configuration. It is safe for concurrent
// use: the key is set at construction and never mutated.
type Cipher struct {
	key []byte
}

// NewCipher builds a Cipher from the configured encryption secret.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is empty")
	}
	return &Cipher{key: DeriveKey(secret)}, nil
}

// Encrypt seals the plaintext with a fresh random nonce and returns
// base64url(nonce || ciphertext). Encrypting the same plaintext twice
// produces different output.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	aesgcm, err := c.newGCM()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce generation error: %w", err)
	}

	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Malformed, truncated, or tampered input yields
// a *common.DecryptionError carrying the cause; partial plaintext is never
// returned.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	aesgcm, err := c.newGCM()
	if err != nil {
		return "", err
	}

	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", &common.DecryptionError{Err: err}
	}
	if len(raw) < aesgcm.NonceSize() {
		return "", &common.DecryptionError{Err: errors.New("ciphertext too short")}
	}

	nonce, sealed := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &common.DecryptionError{Err: err}
	}

	return string(plaintext), nil
}

func (c *Cipher) newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
