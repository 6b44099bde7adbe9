package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 100
	shopCounterparty    = "shop"
)

type ledgerService struct {
	BaseService
	store portsrepo.VersionedDocumentStore
	tx    *txRunner
	opts  serviceOptions
}

// NewLedgerService creates a ledger service over the accounts and history documents.
func NewLedgerService(store portsrepo.VersionedDocumentStore, opts ...Option) portssvc.LedgerSvcFacade {
	o := applyOptions(opts)
	return &ledgerService{
		store: store,
		tx:    newTxRunner(store, o),
		opts:  o,
	}
}

func (s *ledgerService) newAccount(identity domain.Identity) domain.Account {
	return domain.Account{
		TelegramID: identity.UserID,
		Username:   identity.DisplayName(),
		Balance:    s.opts.startingBalance,
		CreatedAt:  domain.NewTimestamp(s.opts.now()),
	}
}

func (s *ledgerService) GetAccount(ctx context.Context, identity domain.Identity) (*domain.Account, error) {
	accounts, _, err := readDocument(ctx, s.store, domain.AccountsDocument, emptyAccounts)
	if err != nil {
		s.LogError(ctx, err, "Failed to read accounts", slog.Int64("user_id", identity.UserID))
		return nil, err
	}
	if i := accounts.FindByID(identity.UserID); i >= 0 {
		account := accounts[i]
		return &account, nil
	}

	created := s.newAccount(identity)
	var stored *domain.Account
	_, err = updateDocument(ctx, s.tx, domain.AccountsDocument, emptyAccounts, func(doc *domain.Accounts) error {
		if i := doc.FindByID(identity.UserID); i >= 0 {
			existing := (*doc)[i]
			stored = &existing
			return errNoChange
		}
		stored = nil
		*doc = append(*doc, created)
		return nil
	})
	if err != nil {
		// The account still works for this request and creation is retried on the next one.
		s.LogError(ctx, err, "Failed to persist new account", slog.Int64("user_id", identity.UserID))
		return &created, nil
	}
	if stored != nil {
		return stored, nil
	}

	s.LogInfo(ctx, "Account created", slog.Int64("user_id", identity.UserID), slog.String("balance", created.Balance.String()))
	return &created, nil
}

func (s *ledgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, _, err := readDocument(ctx, s.store, domain.AccountsDocument, emptyAccounts)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}

	active := make([]domain.Account, 0, len(accounts))
	for _, acc := range accounts {
		if !acc.Deleted {
			active = append(active, acc)
		}
	}
	return active, nil
}

func (s *ledgerService) Transfer(ctx context.Context, from domain.Identity, toUsername string, amount decimal.Decimal, comment string) (decimal.Decimal, error) {
	toUsername = strings.TrimSpace(toUsername)
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if toUsername == "" {
		return decimal.Zero, fmt.Errorf("%w: recipient is required", apperrors.ErrValidation)
	}

	var (
		newBalance decimal.Decimal
		sender     domain.Account
		recipient  domain.Account
	)
	_, err := updateDocument(ctx, s.tx, domain.AccountsDocument, emptyAccounts, func(doc *domain.Accounts) error {
		fromIdx := doc.FindByID(from.UserID)
		if fromIdx < 0 || (*doc)[fromIdx].Deleted {
			return fmt.Errorf("%w: sender", ErrAccountNotFound)
		}
		toIdx := doc.FindActiveByUsername(toUsername)
		if toIdx < 0 {
			return fmt.Errorf("%w: recipient %q", ErrAccountNotFound, toUsername)
		}
		if fromIdx == toIdx {
			return ErrSelfTransfer
		}
		if (*doc)[fromIdx].Balance.LessThan(amount) {
			return apperrors.ErrInsufficientFunds
		}

		(*doc)[fromIdx].Balance = (*doc)[fromIdx].Balance.Sub(amount)
		(*doc)[toIdx].Balance = (*doc)[toIdx].Balance.Add(amount)
		newBalance = (*doc)[fromIdx].Balance
		sender = (*doc)[fromIdx]
		recipient = (*doc)[toIdx]
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Transfer rejected",
			slog.Int64("user_id", from.UserID),
			slog.String("to", toUsername),
			slog.String("amount", amount.String()),
		)
		return decimal.Zero, err
	}

	entry := domain.Transaction{
		ID:      uuid.NewString(),
		Time:    domain.NewTimestamp(s.opts.now()),
		FromID:  sender.TelegramID,
		From:    sender.Username,
		ToID:    recipient.TelegramID,
		To:      recipient.Username,
		Amount:  amount,
		Comment: comment,
		Type:    domain.TransferTransaction,
	}
	if err := s.appendHistory(ctx, entry); err != nil {
		s.LogError(ctx, err, "Transfer committed but history append failed",
			slog.String("transaction_id", entry.ID),
			slog.Int64("user_id", from.UserID),
		)
		return newBalance, fmt.Errorf("%w: transfer %s applied without history entry: %v", apperrors.ErrInconsistentState, entry.ID, err)
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transaction_id", entry.ID),
		slog.Int64("user_id", from.UserID),
		slog.String("to", recipient.Username),
		slog.String("amount", amount.String()),
	)
	return newBalance, nil
}

func (s *ledgerService) Debit(ctx context.Context, identity domain.Identity, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	var newBalance decimal.Decimal
	_, err := updateDocument(ctx, s.tx, domain.AccountsDocument, emptyAccounts, func(doc *domain.Accounts) error {
		i := doc.FindByID(identity.UserID)
		if i < 0 || (*doc)[i].Deleted {
			return ErrAccountNotFound
		}
		if (*doc)[i].Balance.LessThan(amount) {
			return apperrors.ErrInsufficientFunds
		}
		(*doc)[i].Balance = (*doc)[i].Balance.Sub(amount)
		newBalance = (*doc)[i].Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

func (s *ledgerService) RecordPurchase(ctx context.Context, identity domain.Identity, amount decimal.Decimal, comment string) error {
	return s.appendHistory(ctx, domain.Transaction{
		ID:      uuid.NewString(),
		Time:    domain.NewTimestamp(s.opts.now()),
		FromID:  identity.UserID,
		From:    identity.DisplayName(),
		To:      shopCounterparty,
		Amount:  amount,
		Comment: comment,
		Type:    domain.PurchaseTransaction,
	})
}

func (s *ledgerService) GetHistory(ctx context.Context, identity domain.Identity, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	history, _, err := readDocument(ctx, s.store, domain.HistoryDocument, emptyHistory)
	if err != nil {
		s.LogError(ctx, err, "Failed to read history", slog.Int64("user_id", identity.UserID))
		return nil, err
	}

	result := make([]domain.Transaction, 0, limit)
	for _, entry := range history {
		if len(result) == limit {
			break
		}
		if entry.Involves(identity) {
			result = append(result, entry)
		}
	}
	return result, nil
}

// appendHistory prepends entry so the document stays ordered most recent first.
func (s *ledgerService) appendHistory(ctx context.Context, entry domain.Transaction) error {
	_, err := updateDocument(ctx, s.tx, domain.HistoryDocument, emptyHistory, func(doc *[]domain.Transaction) error {
		*doc = append([]domain.Transaction{entry}, *doc...)
		return nil
	})
	return err
}
