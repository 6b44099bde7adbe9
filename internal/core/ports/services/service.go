package services

import (
	"context"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Ledger    LedgerSvcFacade
	Inventory InventorySvcFacade
	Shift     ShiftSvcFacade
	Record    RecordSvcFacade
	User      UserSvcFacade
	Auth      AuthSvcFacade
	Seed      SeedSvc
}

// SeedSvc creates the initial documents of a fresh store.
type SeedSvc interface {
	// Seed creates every missing document and leaves existing ones untouched.
	Seed(ctx context.Context) (*domain.SeedReport, error)
}
