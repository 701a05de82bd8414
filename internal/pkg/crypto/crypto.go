// Package crypto provides the authenticated-encryption and keyed-hash
// primitives the token service and credential vault are built on.
//
// Encrypted blobs are laid out as nonce || ciphertext || tag and keys are
// always raw 32-byte AES-256 / HMAC-SHA-256 keys; ParseKey hides the hex
// encoding used by configuration from every caller.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required key length in bytes (AES-256, HMAC-SHA-256).
	KeySize = 32
	// NonceSize is the GCM nonce length prepended to every blob.
	NonceSize = 12
)

// ErrAuthentication is returned when a blob fails to decrypt: wrong key,
// truncation, or tampering. Callers must treat it as a hard failure.
var ErrAuthentication = errors.New("crypto: message authentication failed")

// ErrInvalidKey is returned when key material has the wrong length or encoding.
var ErrInvalidKey = errors.New("crypto: invalid key")

// ParseKey decodes a hex-encoded 256-bit key as supplied via configuration.
func ParseKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: not hex encoded", ErrInvalidKey)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	return key, nil
}

// DeriveKey expands master into a purpose-bound subkey using HKDF-SHA-256.
// The info label separates key usages so that, for example, the credential
// vault never encrypts under the raw master key itself.
func DeriveKey(master []byte, info string) ([]byte, error) {
	if len(master) != KeySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidKey, KeySize, len(master))
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// Sign computes the HMAC-SHA-256 of data under key. Deterministic.
func Sign(data, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Verify reports whether sig is the HMAC-SHA-256 of data under key.
// The comparison is constant-time.
func Verify(data, sig, key []byte) bool {
	return hmac.Equal(sig, Sign(data, key))
}

// Encrypt seals plaintext under key with AES-256-GCM and returns
// nonce || ciphertext || tag. The nonce is drawn fresh from crypto/rand on
// every call; callers cannot supply one, so nonce reuse cannot happen.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt and verifies its tag.
// Any failure to authenticate — including a truncated blob — yields
// ErrAuthentication, never garbage plaintext.
func Decrypt(blob, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < NonceSize+aead.Overhead() {
		return nil, ErrAuthentication
	}

	plaintext, err := aead.Open(nil, blob[:NonceSize], blob[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
