package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := ParseKey(strings.Repeat("0123456789abcdef", 4))
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	return key
}

func TestParseKey(t *testing.T) {
	if _, err := ParseKey("zz"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for non-hex input, got %v", err)
	}
	if _, err := ParseKey("abcd"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey for short key, got %v", err)
	}
	key, err := ParseKey(strings.Repeat("ab", KeySize))
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if len(key) != KeySize {
		t.Fatalf("expected %d bytes, got %d", KeySize, len(key))
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := testKey(t)
	plaintexts := [][]byte{
		[]byte(""),
		[]byte("x"),
		[]byte("organizations/abc/apiKeys/def"),
		bytes.Repeat([]byte("long plaintext "), 100),
	}

	for _, p := range plaintexts {
		blob, err := Encrypt(p, key)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		got, err := Decrypt(blob, key)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, p) {
			t.Fatalf("round trip mismatch: got %q, want %q", got, p)
		}
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	key := testKey(t)
	a, err := Encrypt([]byte("same plaintext"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	b, err := Encrypt([]byte("same plaintext"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("two encryptions of the same plaintext produced identical blobs")
	}
	if bytes.Equal(a[:NonceSize], b[:NonceSize]) {
		t.Fatalf("nonce repeated across calls")
	}
}

func TestDecrypt_TamperDetection(t *testing.T) {
	key := testKey(t)
	blob, err := Encrypt([]byte("sensitive credential material"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Flipping any single byte — nonce, ciphertext, or tag — must fail.
	for i := range blob {
		mutated := bytes.Clone(blob)
		mutated[i] ^= 0x01
		if _, err := Decrypt(mutated, key); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("byte %d: expected ErrAuthentication, got %v", i, err)
		}
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	key := testKey(t)
	other, err := ParseKey(strings.Repeat("fedcba9876543210", 4))
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}

	blob, err := Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(blob, other); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestDecrypt_TruncatedBlob(t *testing.T) {
	key := testKey(t)
	for _, n := range []int{0, 1, NonceSize, NonceSize + 5} {
		if _, err := Decrypt(make([]byte, n), key); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("len %d: expected ErrAuthentication, got %v", n, err)
		}
	}
}

func TestSignVerify(t *testing.T) {
	key := testKey(t)
	data := []byte("header.payload")

	sig := Sign(data, key)
	if !bytes.Equal(sig, Sign(data, key)) {
		t.Fatalf("Sign is not deterministic")
	}
	if !Verify(data, sig, key) {
		t.Fatalf("Verify rejected a valid signature")
	}
	if Verify([]byte("header.payload2"), sig, key) {
		t.Fatalf("Verify accepted a signature over different data")
	}

	sig[0] ^= 0x01
	if Verify(data, sig, key) {
		t.Fatalf("Verify accepted a mutated signature")
	}
}

func TestDeriveKey(t *testing.T) {
	master := testKey(t)

	a, err := DeriveKey(master, "api-credentials")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	b, err := DeriveKey(master, "api-credentials")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	c, err := DeriveKey(master, "something-else")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Fatalf("same label derived different keys")
	}
	if bytes.Equal(a, c) {
		t.Fatalf("different labels derived the same key")
	}
	if bytes.Equal(a, master) {
		t.Fatalf("derived key equals the master key")
	}

	if _, err := DeriveKey([]byte("short"), "x"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
