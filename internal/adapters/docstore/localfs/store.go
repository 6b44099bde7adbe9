// Package localfs stores documents as JSON files in a directory.
//
// The backend does not enforce versions: every write wins. It is meant for a
// single server instance and local development.
package localfs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Store is a file backed document store on an afero filesystem.
type Store struct {
	fs  afero.Fs
	dir string
}

// New creates a Store rooted at dir on the given filesystem.
func New(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// NewOS creates a Store on the operating system filesystem.
func NewOS(dir string) *Store {
	return New(afero.NewOsFs(), dir)
}

var _ portsrepo.VersionedDocumentStore = (*Store)(nil)

func (s *Store) Name() string { return "local" }

func (s *Store) EnforcesVersions() bool { return false }

func (s *Store) path(key domain.DocumentKey) string {
	return filepath.Join(s.dir, key.FileName())
}

func (s *Store) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBackend, err)
	}
	body, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrBackend, key, err)
	}
	return &portsrepo.Document{Key: key, Body: body, Version: contentVersion(body)}, nil
}

// Write replaces the file through a temporary file and a rename, so readers
// never observe a half written document. The expected version is ignored.
func (s *Store) Write(ctx context.Context, key domain.DocumentKey, body []byte, _ portsrepo.Version) (portsrepo.Version, error) {
	if err := ctx.Err(); err != nil {
		return portsrepo.NoVersion, fmt.Errorf("%w: %v", apperrors.ErrBackend, err)
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return portsrepo.NoVersion, fmt.Errorf("%w: create %s: %v", apperrors.ErrBackend, s.dir, err)
	}

	target := s.path(key)
	tmp := target + ".tmp-" + uuid.NewString()
	if err := afero.WriteFile(s.fs, tmp, body, 0o644); err != nil {
		return portsrepo.NoVersion, fmt.Errorf("%w: write %s: %v", apperrors.ErrBackend, key, err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return portsrepo.NoVersion, fmt.Errorf("%w: replace %s: %v", apperrors.ErrBackend, key, err)
	}
	return contentVersion(body), nil
}

// contentVersion is informational only; the backend never compares it.
func contentVersion(body []byte) portsrepo.Version {
	sum := sha256.Sum256(body)
	return portsrepo.Version(hex.EncodeToString(sum[:]))
}
