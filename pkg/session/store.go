package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrSealedSnapshot is returned when reading a sealed snapshot without a Sealer.
var ErrSealedSnapshot = errors.New("snapshot is sealed but no key is configured")

// Sealer encrypts cookie values at rest.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

type snapshot struct {
	Cookies []Cookie `json:"cookies"`
	Sealed  bool     `json:"sealed,omitempty"`
}

// Store reads and writes the session snapshot file.
type Store struct {
	fs     afero.Fs
	path   string
	sealer Sealer
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSealer stores cookie values encrypted with s.
func WithSealer(s Sealer) StoreOption {
	return func(st *Store) { st.sealer = s }
}

// NewStore returns a Store for the snapshot at path on fs.
func NewStore(fs afero.Fs, path string, opts ...StoreOption) *Store {
	st := &Store{fs: fs, path: path}
	for _, o := range opts {
		o(st)
	}
	return st
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Read decodes the snapshot. Records with an empty path get "/".
func (s *Store) Read() ([]Cookie, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Sealed && s.sealer == nil {
		return nil, ErrSealedSnapshot
	}
	cookies := make([]Cookie, 0, len(snap.Cookies))
	for _, c := range snap.Cookies {
		if snap.Sealed {
			v, err := s.sealer.Open(c.Value)
			if err != nil {
				return nil, fmt.Errorf("open cookie %s: %w", c.Name, err)
			}
			c.Value = v
		}
		if c.Path == "" {
			c.Path = "/"
		}
		cookies = append(cookies, c)
	}
	return cookies, nil
}

// Write replaces the snapshot atomically, creating parent directories.
func (s *Store) Write(cookies []Cookie) error {
	snap := snapshot{Cookies: make([]Cookie, 0, len(cookies)), Sealed: s.sealer != nil}
	for _, c := range cookies {
		if s.sealer != nil {
			v, err := s.sealer.Seal(c.Value)
			if err != nil {
				return fmt.Errorf("seal cookie %s: %w", c.Name, err)
			}
			c.Value = v
		}
		snap.Cookies = append(snap.Cookies, c)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := afero.TempFile(s.fs, dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Remove deletes the snapshot. A missing file is not an error.
func (s *Store) Remove() error {
	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
