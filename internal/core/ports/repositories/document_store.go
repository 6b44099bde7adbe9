package repositories

import (
	"context"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
)

// Version is an opaque, backend specific token identifying the exact state
// of a document at read time.
type Version string

// NoVersion is passed to Write to create a document that must not exist yet.
const NoVersion Version = ""

// Document is a stored JSON document together with the version it was read at.
type Document struct {
	Key     domain.DocumentKey
	Body    []byte
	Version Version
}

// DocumentReader defines read access to versioned documents.
type DocumentReader interface {
	// Read returns the document and its current version.
	// It returns apperrors.ErrNotFound when the document does not exist.
	Read(ctx context.Context, key domain.DocumentKey) (*Document, error)
}

// DocumentWriter defines conditional writes of versioned documents.
type DocumentWriter interface {
	// Write stores body under key if the current version equals expected.
	// With NoVersion the write only succeeds if the key does not exist yet.
	// A failed precondition is reported as apperrors.ErrVersionConflict, any
	// other failure as apperrors.ErrBackend.
	Write(ctx context.Context, key domain.DocumentKey, body []byte, expected Version) (Version, error)
}

// VersionedDocumentStore combines document reads and conditional writes.
type VersionedDocumentStore interface {
	DocumentReader
	DocumentWriter

	// Name identifies the backend for logs and health output.
	Name() string

	// EnforcesVersions is false for backends that accept every write
	// regardless of the expected version.
	EnforcesVersions() bool
}
