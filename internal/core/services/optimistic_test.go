package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/memory"
	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// racingStore commits a competing write right before each of the first `races` writes.
type racingStore struct {
	*memory.Store
	races  int
	writes int
}

func (r *racingStore) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	r.writes++
	if r.races > 0 {
		r.races--
		doc, err := r.Store.Read(ctx, key)
		if err == nil {
			var counter map[string]int
			_ = json.Unmarshal(doc.Body, &counter)
			counter["other"]++
			competing, _ := json.Marshal(counter)
			if _, err := r.Store.Write(ctx, key, competing, doc.Version); err != nil {
				return portsrepo.NoVersion, err
			}
		}
	}
	return r.Store.Write(ctx, key, body, expected)
}

func newRacingStore(t *testing.T, races int) *racingStore {
	t.Helper()
	store := &racingStore{Store: memory.New(), races: races}
	_, err := store.Store.Write(context.Background(), domain.RecordsDocument, []byte(`{"mine":0,"other":0}`), portsrepo.NoVersion)
	require.NoError(t, err)
	return store
}

func emptyCounter() map[string]int { return map[string]int{} }

func increment(doc *map[string]int) error {
	(*doc)["mine"]++
	return nil
}

func TestUpdateDocument_RetriesAfterConflict(t *testing.T) {
	store := newRacingStore(t, 2)
	tx := &txRunner{store: store, maxAttempts: 5}

	got, err := updateDocument(context.Background(), tx, domain.RecordsDocument, emptyCounter, increment)

	require.NoError(t, err)
	assert.Equal(t, 1, got["mine"])
	assert.Equal(t, 2, got["other"], "competing writes must survive the retry")
	assert.Equal(t, 3, store.writes)
}

func TestUpdateDocument_ExhaustionIsBusy(t *testing.T) {
	store := newRacingStore(t, 10)
	tx := &txRunner{store: store, maxAttempts: 3}

	_, err := updateDocument(context.Background(), tx, domain.RecordsDocument, emptyCounter, increment)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBusy)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
	assert.Equal(t, 3, store.writes)
}

func TestUpdateDocument_MutationErrorSkipsWrite(t *testing.T) {
	store := newRacingStore(t, 0)
	tx := &txRunner{store: store, maxAttempts: 3}
	boom := errors.New("boom")

	_, err := updateDocument(context.Background(), tx, domain.RecordsDocument, emptyCounter, func(*map[string]int) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.writes)
}

func TestUpdateDocument_NoChangeSkipsWrite(t *testing.T) {
	store := newRacingStore(t, 0)
	tx := &txRunner{store: store, maxAttempts: 3}

	got, err := updateDocument(context.Background(), tx, domain.RecordsDocument, emptyCounter, func(*map[string]int) error {
		return errNoChange
	})

	require.NoError(t, err)
	assert.Equal(t, 0, got["mine"])
	assert.Zero(t, store.writes)
}

func TestUpdateDocument_CreatesMissingDocument(t *testing.T) {
	store := memory.New()
	tx := &txRunner{store: store, maxAttempts: 3}

	_, err := updateDocument(context.Background(), tx, domain.HistoryDocument, emptyCounter, increment)
	require.NoError(t, err)

	doc, err := store.Read(context.Background(), domain.HistoryDocument)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mine":1}`, string(doc.Body))
}

func TestReadDocument_MalformedIsBackendError(t *testing.T) {
	store := memory.New()
	_, err := store.Write(context.Background(), domain.AccountsDocument, []byte(`{not json`), portsrepo.NoVersion)
	require.NoError(t, err)

	_, _, err = readDocument(context.Background(), store, domain.AccountsDocument, emptyAccounts)

	assert.ErrorIs(t, err, apperrors.ErrBackend)
}

func TestReadDocument_NullBodyIsEmpty(t *testing.T) {
	store := memory.New()
	_, err := store.Write(context.Background(), domain.RunningShiftsDocument, []byte(`null`), portsrepo.NoVersion)
	require.NoError(t, err)

	shifts, version, err := readDocument(context.Background(), store, domain.RunningShiftsDocument, emptyRunningShifts)

	require.NoError(t, err)
	assert.NotNil(t, shifts)
	assert.NotEqual(t, portsrepo.NoVersion, version)
}
