package encryption

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey()
	sealed, err := EncryptValue("abc123", key)
	if err != nil {
		t.Fatalf("EncryptValue: %v", err)
	}
	if !bytes.HasPrefix(sealed, []byte(gcmPrefix)) {
		t.Fatalf("expected %q prefix", gcmPrefix)
	}
	if bytes.Contains(sealed, []byte("abc123")) {
		t.Fatal("ciphertext must not contain the plaintext")
	}
	plain, err := DecryptValue(sealed, key)
	if err != nil {
		t.Fatalf("DecryptValue: %v", err)
	}
	if string(plain) != "abc123" {
		t.Fatalf("DecryptValue = %q; want %q", plain, "abc123")
	}
}

func TestDecryptValue_Errors(t *testing.T) {
	key := testKey()
	if _, err := DecryptValue([]byte("nope"), key); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := DecryptValue([]byte(gcmPrefix+"short"), key); !errors.Is(err, ErrCiphertextTooShort) {
		t.Errorf("expected ErrCiphertextTooShort, got %v", err)
	}

	sealed, err := EncryptValue("value", key)
	if err != nil {
		t.Fatalf("EncryptValue: %v", err)
	}
	other := bytes.Repeat([]byte{0x07}, 32)
	if _, err := DecryptValue(sealed, other); err == nil {
		t.Error("expected authentication failure with the wrong key")
	}
}

func TestSealer(t *testing.T) {
	s, err := NewSealer(testKey())
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	sealed, err := s.Seal("sess-1")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if strings.Contains(sealed, "sess-1") {
		t.Fatal("sealed text leaks plaintext")
	}
	plain, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if plain != "sess-1" {
		t.Errorf("Open = %q; want %q", plain, "sess-1")
	}
	if _, err := s.Open("%%%"); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestNewSealer_InvalidKey(t *testing.T) {
	if _, err := NewSealer([]byte("short")); err == nil {
		t.Fatal("expected error for invalid key size")
	}
}
