package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const credentialKeyInfo = "kudi-commerce/order-credentials/v1"

// CredentialCipher encrypts third-party account credentials attached to orders.
// Ciphertexts are base64(nonce || AES-256-GCM sealed box).
type CredentialCipher struct {
	aead cipher.AEAD
}

// NewCredentialCipher derives a 256-bit key from secret with HKDF-SHA256.
func NewCredentialCipher(secret string) (*CredentialCipher, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("credential encryption key must not be empty")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(credentialKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive credential key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &CredentialCipher{aead: aead}, nil
}

// Encrypt returns the encoded ciphertext of plaintext. Blank input yields "".
func (c *CredentialCipher) Encrypt(plaintext string) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Blank input yields "".
func (c *CredentialCipher) Decrypt(encoded string) (string, error) {
	if strings.TrimSpace(encoded) == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid credential encoding: %w", err)
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns {
		return "", errors.New("credential ciphertext too short")
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt credential: %w", err)
	}
	return string(plain), nil
}
