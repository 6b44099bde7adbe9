package services

import (
	"context"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations on bank accounts and history.
type LedgerReaderSvc interface {
	// GetAccount returns the caller's account, creating it with the starting balance on first use.
	GetAccount(ctx context.Context, identity domain.Identity) (*domain.Account, error)

	// ListAccounts returns every account that is not flagged deleted.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetHistory returns up to limit transactions involving the identity, most recent first.
	GetHistory(ctx context.Context, identity domain.Identity, limit int) ([]domain.Transaction, error)
}

// LedgerWriterSvc defines balance mutating operations.
type LedgerWriterSvc interface {
	// Transfer moves amount from the caller to the account named toUsername and
	// returns the caller's new balance.
	Transfer(ctx context.Context, from domain.Identity, toUsername string, amount decimal.Decimal, comment string) (decimal.Decimal, error)

	// Debit takes amount from the caller's account and returns the new balance.
	Debit(ctx context.Context, identity domain.Identity, amount decimal.Decimal) (decimal.Decimal, error)

	// RecordPurchase appends a purchase entry to the history.
	RecordPurchase(ctx context.Context, identity domain.Identity, amount decimal.Decimal, comment string) error
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
