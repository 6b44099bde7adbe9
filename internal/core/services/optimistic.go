package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/homeos_backend/internal/middleware"
)

const (
	defaultMaxAttempts  = 5
	defaultRetryBackoff = 20 * time.Millisecond
)

// errNoChange is returned by a mutation that decided the document is already
// in the wanted state. updateDocument then returns without writing.
var errNoChange = errors.New("document unchanged")

// txRunner runs optimistic read-modify-write transactions on single documents.
type txRunner struct {
	store       portsrepo.VersionedDocumentStore
	maxAttempts int
	backoff     time.Duration
}

func newTxRunner(store portsrepo.VersionedDocumentStore, o serviceOptions) *txRunner {
	return &txRunner{store: store, maxAttempts: o.maxAttempts, backoff: o.retryBackoff}
}

// readDocument decodes a document. A missing document decodes to empty() with NoVersion.
func readDocument[T any](ctx context.Context, store portsrepo.DocumentReader, key domain.DocumentKey, empty func() T) (T, portsrepo.Version, error) {
	value := empty()
	doc, err := store.Read(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return value, portsrepo.NoVersion, nil
		}
		return value, portsrepo.NoVersion, err
	}

	trimmed := bytes.TrimSpace(doc.Body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return value, doc.Version, nil
	}
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return empty(), portsrepo.NoVersion, fmt.Errorf("%w: malformed document %s: %v", apperrors.ErrBackend, key, err)
	}
	return value, doc.Version, nil
}

// updateDocument reads key, applies mutate and writes the result back with the
// version it read. On a version conflict the whole cycle starts over from a
// fresh read, up to maxAttempts times; after that ErrBusy is returned.
// An error from mutate aborts without writing. mutate must not keep state
// between calls other than what it derives from the document it is given.
func updateDocument[T any](ctx context.Context, tx *txRunner, key domain.DocumentKey, empty func() T, mutate func(doc *T) error) (T, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for attempt := 1; attempt <= tx.maxAttempts; attempt++ {
		doc, version, err := readDocument(ctx, tx.store, key, empty)
		if err != nil {
			return empty(), err
		}

		if err := mutate(&doc); err != nil {
			if errors.Is(err, errNoChange) {
				return doc, nil
			}
			return empty(), err
		}

		body, err := json.Marshal(doc)
		if err != nil {
			return empty(), fmt.Errorf("encode %s: %w", key, err)
		}

		_, err = tx.store.Write(ctx, key, body, version)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			return empty(), err
		}

		logger.Info("Retrying document update after version conflict",
			slog.String("document", string(key)),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", tx.maxAttempts),
		)
		if attempt < tx.maxAttempts {
			if err := sleepContext(ctx, tx.backoff*time.Duration(attempt)); err != nil {
				return empty(), fmt.Errorf("%w: %v", apperrors.ErrBackend, err)
			}
		}
	}

	return empty(), fmt.Errorf("%w: %s still conflicting after %d attempts", apperrors.ErrBusy, key, tx.maxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func emptyAccounts() domain.Accounts             { return domain.Accounts{} }
func emptyHistory() []domain.Transaction         { return []domain.Transaction{} }
func emptyProducts() domain.Products             { return domain.Products{} }
func emptyStores() []domain.Store                { return []domain.Store{} }
func emptyUsers() []domain.User                  { return []domain.User{} }
func emptyRunningShifts() domain.RunningShifts   { return domain.RunningShifts{} }
func emptyShiftHistory() domain.ShiftHistory     { return domain.ShiftHistory{} }
func emptyRecords() map[string]json.RawMessage   { return map[string]json.RawMessage{} }
