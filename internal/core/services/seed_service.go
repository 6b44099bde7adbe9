package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/shopspring/decimal"
)

type seedService struct {
	BaseService
	store portsrepo.VersionedDocumentStore
	cfg   *config.Config
	opts  serviceOptions
}

// NewSeedService creates the service that initializes an empty store.
func NewSeedService(store portsrepo.VersionedDocumentStore, cfg *config.Config, opts ...Option) portssvc.SeedSvc {
	return &seedService{store: store, cfg: cfg, opts: applyOptions(opts)}
}

func defaultProducts() domain.Products {
	return domain.Products{
		{
			ID:          1,
			Title:       "Смартфон",
			Description: "Современный смартфон",
			Price:       decimal.NewFromInt(2500),
			Stock:       5,
			Category:    "electronics",
			Icon:        "📱",
		},
		{
			ID:          2,
			Title:       "Ноутбук",
			Description: "Мощный ноутбук",
			Price:       decimal.NewFromInt(5000),
			Stock:       3,
			Category:    "electronics",
			Icon:        "💻",
		},
	}
}

func (s *seedService) initialContent(key domain.DocumentKey) any {
	switch key {
	case domain.AccountsDocument:
		accounts := domain.Accounts{}
		if s.cfg != nil && s.cfg.AdminTelegramID != 0 {
			accounts = append(accounts, domain.Account{
				TelegramID: s.cfg.AdminTelegramID,
				Username:   s.cfg.AdminUsername,
				Balance:    s.cfg.AdminStartingBalance,
				IsAdmin:    true,
				CreatedAt:  domain.NewTimestamp(s.opts.now()),
			})
		}
		return accounts
	case domain.ProductsDocument:
		return defaultProducts()
	case domain.HistoryDocument:
		return []domain.Transaction{}
	case domain.UsersDocument:
		return []domain.User{}
	case domain.StoresDocument:
		return []domain.Store{}
	default:
		return map[string]any{}
	}
}

// Seed writes every document that does not exist yet. Existing documents are never overwritten.
func (s *seedService) Seed(ctx context.Context) (*domain.SeedReport, error) {
	report := &domain.SeedReport{
		Created: []domain.DocumentKey{},
		Skipped: []domain.DocumentKey{},
	}

	for _, key := range domain.AllDocuments() {
		// Backends that ignore versions would overwrite on a NoVersion write.
		if _, err := s.store.Read(ctx, key); err == nil {
			report.Skipped = append(report.Skipped, key)
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check document", slog.String("document", string(key)))
			return report, err
		}

		body, err := json.Marshal(s.initialContent(key))
		if err != nil {
			return report, fmt.Errorf("encode %s: %w", key, err)
		}

		_, err = s.store.Write(ctx, key, body, portsrepo.NoVersion)
		switch {
		case err == nil:
			report.Created = append(report.Created, key)
		case errors.Is(err, apperrors.ErrVersionConflict):
			report.Skipped = append(report.Skipped, key)
		default:
			s.LogError(ctx, err, "Failed to seed document", slog.String("document", string(key)))
			return report, err
		}
	}

	s.LogInfo(ctx, "Store seeded", slog.Int("created", len(report.Created)), slog.Int("skipped", len(report.Skipped)))
	return report, nil
}
