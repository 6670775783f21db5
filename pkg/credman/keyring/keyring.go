// Package keyring provides the 32-byte key used to seal persisted session
// values. Keys live in the operating system's keyring, with a file-based
// store as fallback for headless machines without a secret service.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeySize is the length of every key handed out by a Provider.
const KeySize = 32

// Provider stores and retrieves a single key.
type Provider interface {
	GetKey() ([]byte, error)
	SetKey() ([]byte, error)
	DeleteKey() error
}

// Keyring stores the key hex-encoded under AppName/KeyField in the system keyring.
type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

// NewKeyring returns the keyring entry used for session sealing.
func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "touchpos",
		KeyField: "session",
	}
}

// SetKey generates a fresh key and stores it, replacing any previous one.
func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := randRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := keyringSet(k.AppName, k.KeyField, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

// GetKey returns the stored key.
func (k *Keyring) GetKey() ([]byte, error) {
	s, err := keyringGet(k.AppName, k.KeyField)
	if err != nil {
		return nil, err
	}
	return decodeKey(s)
}

// DeleteKey removes the stored key.
func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.AppName, k.KeyField)
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length: expected %d, got %d", KeySize, len(key))
	}
	return key, nil
}

// ErrNoProvider is returned by LoadOrCreate when called without providers.
var ErrNoProvider = errors.New("no key provider configured")

// LoadOrCreate returns the first key any provider already holds. When none
// holds one, a key is created in the first provider that accepts it.
func LoadOrCreate(providers ...Provider) ([]byte, error) {
	if len(providers) == 0 {
		return nil, ErrNoProvider
	}
	for _, p := range providers {
		if key, err := p.GetKey(); err == nil {
			return key, nil
		}
	}
	var errs []error
	for _, p := range providers {
		key, err := p.SetKey()
		if err == nil {
			return key, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("store key: %w", errors.Join(errs...))
}
