// Package pgsql stores documents in a single PostgreSQL table with a version column.
package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a PostgreSQL backed document store. The schema is created by the
// migrations in pkg/database.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps a connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var _ portsrepo.VersionedDocumentStore = (*Store)(nil)

func (s *Store) Name() string { return "postgres" }

func (s *Store) EnforcesVersions() bool { return true }

func (s *Store) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	query := `SELECT body::text, version FROM documents WHERE key = $1`

	var (
		body    string
		version int64
	)
	err := s.pool.QueryRow(ctx, query, string(key)).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: select %s: %v", apperrors.ErrBackend, key, err)
	}
	return &portsrepo.Document{Key: key, Body: []byte(body), Version: formatVersion(version)}, nil
}

func (s *Store) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	var (
		version int64
		err     error
	)
	if expected == portsrepo.NoVersion {
		query := `
			INSERT INTO documents (key, body, version, updated_at)
			VALUES ($1, $2::jsonb, 1, now())
			ON CONFLICT (key) DO NOTHING
			RETURNING version`
		err = s.pool.QueryRow(ctx, query, string(key), string(body)).Scan(&version)
	} else {
		expectedVersion, parseErr := strconv.ParseInt(string(expected), 10, 64)
		if parseErr != nil {
			return portsrepo.NoVersion, fmt.Errorf("%w: %s: unknown version %q", apperrors.ErrVersionConflict, key, expected)
		}
		query := `
			UPDATE documents
			SET body = $2::jsonb, version = version + 1, updated_at = now()
			WHERE key = $1 AND version = $3
			RETURNING version`
		err = s.pool.QueryRow(ctx, query, string(key), string(body), expectedVersion).Scan(&version)
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return portsrepo.NoVersion, fmt.Errorf("%w: document %s changed since version %q", apperrors.ErrVersionConflict, key, expected)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
			return portsrepo.NoVersion, fmt.Errorf("%w: %s is not valid json: %v", apperrors.ErrBackend, key, err)
		}
		return portsrepo.NoVersion, fmt.Errorf("%w: write %s: %v", apperrors.ErrBackend, key, err)
	}
	return formatVersion(version), nil
}

func formatVersion(v int64) portsrepo.Version {
	return portsrepo.Version(strconv.FormatInt(v, 10))
}
