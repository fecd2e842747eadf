package cas

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/jcdickinson/uiuadoc/internal/config"
)

var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// Store is a content-addressed store of zstd compressed documents, sharded
// by the first two characters of the SHA-256 hash.
type Store struct {
	dir string
}

// Open returns a store rooted at dir.
func Open(dir string) *Store {
	return &Store{dir: dir}
}

// Default returns the store in the user cache directory.
func Default() *Store {
	return Open(config.CASDir())
}

func (s *Store) Dir() string {
	return s.dir
}

// Hash returns the key content is stored under.
func Hash(content string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(content)))
}

// path returns the sharded file path for a hash: <dir>/<first2>/<rest>.md.zst
func (s *Store) path(hash string) string {
	return filepath.Join(s.dir, hash[:2], hash[2:]+".md.zst")
}

// Put stores content, returning its hash. Storing existing content is a
// no-op.
func (s *Store) Put(content string) (string, error) {
	hash := Hash(content)

	p := s.path(hash)
	if _, err := os.Stat(p); err == nil {
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("creating CAS directory: %w", err)
	}

	// Write then rename so concurrent readers never see a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating CAS temp file: %w", err)
	}
	if _, err := tmp.Write(encoder.EncodeAll([]byte(content), nil)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing CAS file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing CAS file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("renaming CAS file: %w", err)
	}
	return hash, nil
}

// Get retrieves content by hash.
func (s *Store) Get(hash string) (string, error) {
	if len(hash) < 3 {
		return "", fmt.Errorf("invalid CAS hash %q", hash)
	}
	data, err := os.ReadFile(s.path(hash))
	if err != nil {
		return "", fmt.Errorf("reading CAS file %s: %w", hash, err)
	}
	out, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return "", fmt.Errorf("decompressing CAS file %s: %w", hash, err)
	}
	return string(out), nil
}

// Has reports whether hash is present.
func (s *Store) Has(hash string) bool {
	if len(hash) < 3 {
		return false
	}
	_, err := os.Stat(s.path(hash))
	return err == nil
}

// Clear removes every stored document.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing CAS directory: %w", err)
	}
	return nil
}
