package handlers_test

import (
	"context"
	"encoding/json"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetAccount(ctx context.Context, identity domain.Identity) (*domain.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockLedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockLedgerService) GetHistory(ctx context.Context, identity domain.Identity, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, identity, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) Transfer(ctx context.Context, from domain.Identity, toUsername string, amount decimal.Decimal, comment string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, toUsername, amount, comment)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) Debit(ctx context.Context, identity domain.Identity, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, identity, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) RecordPurchase(ctx context.Context, identity domain.Identity, amount decimal.Decimal, comment string) error {
	args := m.Called(ctx, identity, amount, comment)
	return args.Error(0)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock InventoryService ---
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockInventoryService) GetMyStore(ctx context.Context, identity domain.Identity) (*domain.Store, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}
func (m *MockInventoryService) Purchase(ctx context.Context, identity domain.Identity, cart []domain.CartLine) (decimal.Decimal, error) {
	args := m.Called(ctx, identity, cart)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.InventorySvcFacade = (*MockInventoryService)(nil)

// --- Mock ShiftService ---
type MockShiftService struct {
	mock.Mock
}

func (m *MockShiftService) StartShift(ctx context.Context, identity domain.Identity) (*domain.RunningShift, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunningShift), args.Error(1)
}
func (m *MockShiftService) StopShift(ctx context.Context, identity domain.Identity, minutes int, pay decimal.Decimal) (*domain.ShiftRecord, error) {
	args := m.Called(ctx, identity, minutes, pay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftRecord), args.Error(1)
}
func (m *MockShiftService) ListShifts(ctx context.Context, identity domain.Identity) ([]domain.ShiftRecord, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftRecord), args.Error(1)
}
func (m *MockShiftService) GetRunningShift(ctx context.Context, identity domain.Identity) (*domain.RunningShift, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunningShift), args.Error(1)
}

var _ portssvc.ShiftSvcFacade = (*MockShiftService)(nil)

// --- Mock RecordService ---
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) GetRecords(ctx context.Context, identity domain.Identity) (json.RawMessage, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
func (m *MockRecordService) SetRecords(ctx context.Context, identity domain.Identity, records json.RawMessage) error {
	args := m.Called(ctx, identity, records)
	return args.Error(0)
}

var _ portssvc.RecordSvcFacade = (*MockRecordService)(nil)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, initData string) (*domain.Session, error) {
	args := m.Called(ctx, initData)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockAuthService) ParseSession(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock SeedService ---
type MockSeedService struct {
	mock.Mock
}

func (m *MockSeedService) Seed(ctx context.Context) (*domain.SeedReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeedReport), args.Error(1)
}

var _ portssvc.SeedSvc = (*MockSeedService)(nil)

// stubStore only answers the health endpoint.
type stubStore struct{}

func (stubStore) Name() string           { return "memory" }
func (stubStore) EnforcesVersions() bool { return true }
func (stubStore) Read(context.Context, domain.DocumentKey) (*portsrepo.Document, error) {
	return nil, nil
}
func (stubStore) Write(context.Context, domain.DocumentKey, []byte, portsrepo.Version) (portsrepo.Version, error) {
	return portsrepo.NoVersion, nil
}
