// Package memory is an in-process VersionedDocumentStore with real compare-and-swap.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
)

type entry struct {
	body    []byte
	version uint64
}

// Store keeps documents in a map. The mutex only protects the map; callers
// still get conflicts exactly like on a remote backend.
type Store struct {
	mu      sync.Mutex
	docs    map[domain.DocumentKey]entry
	counter uint64
}

// New creates an empty Store.
func New() *Store {
	return &Store{docs: make(map[domain.DocumentKey]entry)}
}

var _ portsrepo.VersionedDocumentStore = (*Store)(nil)

func (s *Store) Name() string { return "memory" }

func (s *Store) EnforcesVersions() bool { return true }

func (s *Store) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBackend, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.docs[key]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, key)
	}
	return &portsrepo.Document{
		Key:     key,
		Body:    append([]byte(nil), e.body...),
		Version: formatVersion(e.version),
	}, nil
}

func (s *Store) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	if err := ctx.Err(); err != nil {
		return portsrepo.NoVersion, fmt.Errorf("%w: %v", apperrors.ErrBackend, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.docs[key]
	switch {
	case expected == portsrepo.NoVersion && exists:
		return portsrepo.NoVersion, fmt.Errorf("%w: document %s already exists", apperrors.ErrVersionConflict, key)
	case expected != portsrepo.NoVersion && (!exists || formatVersion(current.version) != expected):
		return portsrepo.NoVersion, fmt.Errorf("%w: document %s changed since version %s", apperrors.ErrVersionConflict, key, expected)
	}

	s.counter++
	s.docs[key] = entry{body: append([]byte(nil), body...), version: s.counter}
	return formatVersion(s.counter), nil
}

func formatVersion(v uint64) portsrepo.Version {
	return portsrepo.Version(strconv.FormatUint(v, 10))
}
