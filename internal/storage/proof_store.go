package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxProofSize mirrors the request-body ceiling enforced at the HTTP
	// boundary; the store re-checks it so no caller can bypass the limit.
	MaxProofSize = 5 << 20

	proofNameLength = 12
	maxNameAttempts = 5
)

var (
	ErrProofTooLarge = errors.New("proof exceeds the 5 MiB limit")
	ErrProofNotFound = errors.New("proof not found")
	ErrProofBadKey   = errors.New("invalid proof key")
	ErrNameExhausted = errors.New("could not allocate a unique proof name")
)

// ProofStore keeps proof images on local disk under a single root, keyed by
// generated name. Names are never reused; an existing file is never
// overwritten.
type ProofStore struct {
	root string
}

func NewProofStore(root string) (*ProofStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("proof store root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create proof store root: %w", err)
	}
	return &ProofStore{root: root}, nil
}

// Save streams content into a freshly generated name and returns the key.
// O_EXCL makes the uniqueness check and the create a single atomic step; on
// the vanishingly rare collision a new name is drawn.
func (store *ProofStore) Save(extension string, content io.Reader) (string, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := generateProofName(extension)
		file, err := os.OpenFile(filepath.Join(store.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create proof file: %w", err)
		}

		written, err := io.Copy(file, io.LimitReader(content, MaxProofSize+1))
		closeErr := file.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(filepath.Join(store.root, name))
			return "", fmt.Errorf("write proof file: %w", err)
		}
		if written > MaxProofSize {
			_ = os.Remove(filepath.Join(store.root, name))
			return "", ErrProofTooLarge
		}
		return name, nil
	}
	return "", ErrNameExhausted
}

// Path resolves a stored key to its on-disk location, refusing anything that
// is not a bare generated name.
func (store *ProofStore) Path(key string) (string, error) {
	name := strings.TrimSpace(key)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrProofBadKey
	}

	path := filepath.Join(store.root, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrProofNotFound
		}
		return "", fmt.Errorf("stat proof file: %w", err)
	}
	return path, nil
}

func (store *ProofStore) Open(key string) (io.ReadCloser, error) {
	path, err := store.Path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func generateProofName(extension string) string {
	compact := strings.ReplaceAll(uuid.NewString(), "-", "")
	return compact[:proofNameLength] + "." + strings.ToLower(strings.TrimPrefix(extension, "."))
}
