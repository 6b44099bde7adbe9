// Package storetest holds the behaviour every VersionedDocumentStore backend must show.
package storetest

import (
	"context"
	"testing"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunConformance exercises read, create and conditional update semantics.
// newStore must return an empty store for every call.
func RunConformance(t *testing.T, newStore func(t *testing.T) portsrepo.VersionedDocumentStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("read missing document", func(t *testing.T) {
		store := newStore(t)
		doc, err := store.Read(ctx, domain.AccountsDocument)
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("create then read", func(t *testing.T) {
		store := newStore(t)
		version, err := store.Write(ctx, domain.ProductsDocument, []byte(`[{"id":1}]`), portsrepo.NoVersion)
		require.NoError(t, err)
		require.NotEmpty(t, version)

		doc, err := store.Read(ctx, domain.ProductsDocument)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1}]`, string(doc.Body))
		assert.Equal(t, version, doc.Version)
		assert.Equal(t, domain.ProductsDocument, doc.Key)
	})

	t.Run("update with current version", func(t *testing.T) {
		store := newStore(t)
		v1, err := store.Write(ctx, domain.RecordsDocument, []byte(`{}`), portsrepo.NoVersion)
		require.NoError(t, err)

		v2, err := store.Write(ctx, domain.RecordsDocument, []byte(`{"1":"a"}`), v1)
		require.NoError(t, err)
		assert.NotEqual(t, v1, v2)

		doc, err := store.Read(ctx, domain.RecordsDocument)
		require.NoError(t, err)
		assert.JSONEq(t, `{"1":"a"}`, string(doc.Body))
		assert.Equal(t, v2, doc.Version)
	})

	if !newStore(t).EnforcesVersions() {
		return
	}

	t.Run("create over existing document conflicts", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Write(ctx, domain.UsersDocument, []byte(`[]`), portsrepo.NoVersion)
		require.NoError(t, err)

		_, err = store.Write(ctx, domain.UsersDocument, []byte(`[{"telegram_id":1}]`), portsrepo.NoVersion)
		assert.ErrorIs(t, err, apperrors.ErrVersionConflict)

		doc, err := store.Read(ctx, domain.UsersDocument)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(doc.Body))
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		store := newStore(t)
		v1, err := store.Write(ctx, domain.HistoryDocument, []byte(`[]`), portsrepo.NoVersion)
		require.NoError(t, err)
		_, err = store.Write(ctx, domain.HistoryDocument, []byte(`[{"amount":1}]`), v1)
		require.NoError(t, err)

		_, err = store.Write(ctx, domain.HistoryDocument, []byte(`[{"amount":2}]`), v1)
		assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
		assert.NotErrorIs(t, err, apperrors.ErrBackend)

		doc, err := store.Read(ctx, domain.HistoryDocument)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"amount":1}]`, string(doc.Body))
	})

	t.Run("update of missing document conflicts", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Write(ctx, domain.StoresDocument, []byte(`[]`), portsrepo.Version("12345"))
		assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
	})
}
