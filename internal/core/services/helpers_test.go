package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/SscSPs/homeos_backend/internal/adapters/docstore/memory"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDocumentStore is a mock type for the VersionedDocumentStore interface
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Name() string           { return "mock" }
func (m *MockDocumentStore) EnforcesVersions() bool { return true }

func (m *MockDocumentStore) Read(ctx context.Context, key domain.DocumentKey) (*portsrepo.Document, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.Document), args.Error(1)
}

func (m *MockDocumentStore) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	args := m.Called(ctx, key, body, expected)
	return args.Get(0).(portsrepo.Version), args.Error(1)
}

// hookStore wraps a memory store and lets a test fail writes of chosen documents.
type hookStore struct {
	*memory.Store
	mu        sync.Mutex
	writes    map[domain.DocumentKey]int
	failWrite func(key domain.DocumentKey, n int) error
}

func newHookStore() *hookStore {
	return &hookStore{Store: memory.New(), writes: map[domain.DocumentKey]int{}}
}

func (h *hookStore) Write(ctx context.Context, key domain.DocumentKey, body []byte, expected portsrepo.Version) (portsrepo.Version, error) {
	h.mu.Lock()
	h.writes[key]++
	n := h.writes[key]
	hook := h.failWrite
	h.mu.Unlock()

	if hook != nil {
		if err := hook(key, n); err != nil {
			return portsrepo.NoVersion, err
		}
	}
	return h.Store.Write(ctx, key, body, expected)
}

func (h *hookStore) writeCount(key domain.DocumentKey) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writes[key]
}

func putDocument(t *testing.T, store portsrepo.VersionedDocumentStore, key domain.DocumentKey, value any) {
	t.Helper()
	body, err := json.Marshal(value)
	require.NoError(t, err)
	_, err = store.Write(context.Background(), key, body, portsrepo.NoVersion)
	require.NoError(t, err)
}

func getDocument[T any](t *testing.T, store portsrepo.VersionedDocumentStore, key domain.DocumentKey) T {
	t.Helper()
	var value T
	doc, err := store.Read(context.Background(), key)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(doc.Body, &value))
	return value
}

func documentVersion(t *testing.T, store portsrepo.VersionedDocumentStore, key domain.DocumentKey) portsrepo.Version {
	t.Helper()
	doc, err := store.Read(context.Background(), key)
	require.NoError(t, err)
	return doc.Version
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

var (
	alice = domain.Identity{UserID: 1001, Username: "alice", FirstName: "Alice"}
	bob   = domain.Identity{UserID: 1002, Username: "bob", FirstName: "Bob"}
	carol = domain.Identity{UserID: 1003, Username: "carol"}
)
