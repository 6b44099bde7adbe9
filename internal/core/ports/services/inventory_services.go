package services

import (
	"context"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryReaderSvc defines catalog reads.
type InventoryReaderSvc interface {
	// ListProducts returns the full product catalog.
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// GetMyStore returns the store owned by the identity, or nil when there is none.
	GetMyStore(ctx context.Context, identity domain.Identity) (*domain.Store, error)
}

// InventoryWriterSvc defines purchases.
type InventoryWriterSvc interface {
	// Purchase decrements stock for every cart line and debits the buyer.
	// It returns the buyer's new balance.
	Purchase(ctx context.Context, identity domain.Identity, cart []domain.CartLine) (decimal.Decimal, error)
}

// InventorySvcFacade combines all inventory service interfaces.
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
