// Package gcs stores documents as objects in a Google Cloud Storage bucket.
// The object generation is the version; writes use generation preconditions.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Config selects the bucket and object prefix.
type Config struct {
	Bucket          string
	Prefix          string
	CredentialsJSON string
}

// Store keeps one object per document.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// New creates a Store. Without explicit credentials the client uses
// application default credentials.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}
	var opts []option.ClientOption
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient wraps an existing storage client.
func NewWithClient(client *storage.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: client.Bucket(bucket), prefix: prefix}
}

var _ portsrepo.VersionedDocumentStore = (*Store)(nil)

func (s *Store) Name() string { return "gcs" }

func (s *Store) EnforcesVersions() bool { return true }

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) object(key domain.DocumentKey) *storage.ObjectHandle {
	return s.bucket.Object(s.prefix + key.FileName())
}

func (s *Store) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	reader, err := s.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrBackend, key, err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrBackend, key, err)
	}
	return &portsrepo.Document{
		Key:     key,
		Body:    body,
		Version: formatGeneration(reader.Attrs.Generation),
	}, nil
}

func (s *Store) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	conds := storage.Conditions{DoesNotExist: true}
	if expected != portsrepo.NoVersion {
		generation, err := strconv.ParseInt(string(expected), 10, 64)
		if err != nil {
			// Not a generation this backend handed out, so it cannot be current.
			return portsrepo.NoVersion, fmt.Errorf("%w: %s: unknown version %q", apperrors.ErrVersionConflict, key, expected)
		}
		conds = storage.Conditions{GenerationMatch: generation}
	}

	writer := s.object(key).If(conds).NewWriter(ctx)
	writer.ContentType = "application/json"
	if _, err := writer.Write(body); err != nil {
		_ = writer.Close()
		return portsrepo.NoVersion, classifyWriteError(key, err)
	}
	if err := writer.Close(); err != nil {
		return portsrepo.NoVersion, classifyWriteError(key, err)
	}
	return formatGeneration(writer.Attrs().Generation), nil
}

func classifyWriteError(key domain.DocumentKey, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: put %s: %v", apperrors.ErrVersionConflict, key, err)
	}
	return fmt.Errorf("%w: put %s: %v", apperrors.ErrBackend, key, err)
}

func formatGeneration(generation int64) portsrepo.Version {
	return portsrepo.Version(strconv.FormatInt(generation, 10))
}
