package services

import (
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, verifier portssvc.IdentityVerifier, opts ...Option) *portssvc.ServiceContainer {
	common := append([]Option{
		WithMaxAttempts(cfg.StoreMaxAttempts),
		WithStartingBalance(cfg.StartingBalance),
	}, opts...)

	container := &portssvc.ServiceContainer{}

	// Ledger first since inventory debits through it
	container.Ledger = NewLedgerService(repos.Documents, common...)
	container.Inventory = NewInventoryService(repos.Documents, container.Ledger, common...)
	container.Shift = NewShiftService(repos.Documents, common...)
	container.Record = NewRecordService(repos.Documents, common...)
	container.User = NewUserService(repos.Documents, common...)
	container.Auth = NewAuthService(cfg, verifier, container.User)
	container.Seed = NewSeedService(repos.Documents, cfg, common...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade    = (*ledgerService)(nil)
	_ portssvc.InventorySvcFacade = (*inventoryService)(nil)
	_ portssvc.ShiftSvcFacade     = (*shiftService)(nil)
	_ portssvc.RecordSvcFacade    = (*recordService)(nil)
	_ portssvc.UserSvcFacade      = (*userService)(nil)
	_ portssvc.AuthSvcFacade      = (*authService)(nil)
	_ portssvc.SeedSvc            = (*seedService)(nil)
)
