package gcs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/storetest"
	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassifyWriteError(t *testing.T) {
	conflict := classifyWriteError(domain.AccountsDocument, &googleapi.Error{Code: http.StatusPreconditionFailed})
	assert.ErrorIs(t, conflict, apperrors.ErrVersionConflict)

	backend := classifyWriteError(domain.AccountsDocument, &googleapi.Error{Code: http.StatusForbidden})
	assert.ErrorIs(t, backend, apperrors.ErrBackend)
	assert.NotErrorIs(t, backend, apperrors.ErrVersionConflict)

	network := classifyWriteError(domain.AccountsDocument, errors.New("connection reset"))
	assert.ErrorIs(t, network, apperrors.ErrBackend)
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

// TestStore_Conformance runs against a storage emulator, e.g. fake-gcs-server,
// when STORAGE_EMULATOR_HOST and GCS_TEST_BUCKET are set.
func TestStore_Conformance(t *testing.T) {
	bucket := os.Getenv("GCS_TEST_BUCKET")
	if os.Getenv("STORAGE_EMULATOR_HOST") == "" || bucket == "" {
		t.Skip("GCS emulator not configured")
	}
	client, err := storage.NewClient(context.Background())
	if err != nil {
		t.Skipf("GCS emulator not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	storetest.RunConformance(t, func(t *testing.T) portsrepo.VersionedDocumentStore {
		return NewWithClient(client, bucket, "test-"+uuid.NewString()+"/")
	})
}
