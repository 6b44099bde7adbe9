package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/homeos_backend/internal/middleware"
)

// instrumentedStore bounds every backend call with a timeout, logs it, and
// makes sure callers only ever see NotFound, VersionConflict or Backend errors.
type instrumentedStore struct {
	next    portsrepo.VersionedDocumentStore
	timeout time.Duration
}

// WithTimeout wraps a backend so that no call outlives timeout.
func WithTimeout(next portsrepo.VersionedDocumentStore, timeout time.Duration) portsrepo.VersionedDocumentStore {
	return &instrumentedStore{next: next, timeout: timeout}
}

func (s *instrumentedStore) Name() string { return s.next.Name() }

func (s *instrumentedStore) EnforcesVersions() bool { return s.next.EnforcesVersions() }

func (s *instrumentedStore) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	start := time.Now()
	doc, err := s.next.Read(callCtx, key)
	err = normalize(callCtx, err)
	s.log(ctx, "read", key, start, err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *instrumentedStore) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	start := time.Now()
	version, err := s.next.Write(callCtx, key, body, expected)
	err = normalize(callCtx, err)
	s.log(ctx, "write", key, start, err)
	if err != nil {
		return portsrepo.NoVersion, err
	}
	return version, nil
}

func (s *instrumentedStore) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *instrumentedStore) log(ctx context.Context, op string, key domain.DocumentKey, start time.Time, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	attrs := []any{
		slog.String("backend", s.next.Name()),
		slog.String("op", op),
		slog.String("document", string(key)),
		slog.Duration("duration", time.Since(start)),
	}
	switch {
	case err == nil, errors.Is(err, apperrors.ErrNotFound):
		logger.Debug("Document store call", attrs...)
	case errors.Is(err, apperrors.ErrVersionConflict):
		logger.Info("Document version conflict", attrs...)
	default:
		logger.Error("Document store call failed", append(attrs, slog.String("error", err.Error()))...)
	}
}

func normalize(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, apperrors.ErrBackend) {
		return fmt.Errorf("%w: %v: %v", apperrors.ErrBackend, ctxErr, err)
	}
	if errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrVersionConflict) ||
		errors.Is(err, apperrors.ErrBackend) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrBackend, err)
}
