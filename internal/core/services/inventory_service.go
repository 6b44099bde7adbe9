package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type inventoryService struct {
	BaseService
	store    portsrepo.VersionedDocumentStore
	tx       *txRunner
	ledger   portssvc.LedgerSvcFacade
	validate *validator.Validate
}

// NewInventoryService creates the shop service. Purchases debit buyers through ledger.
func NewInventoryService(store portsrepo.VersionedDocumentStore, ledger portssvc.LedgerSvcFacade, opts ...Option) portssvc.InventorySvcFacade {
	o := applyOptions(opts)
	return &inventoryService{
		store:    store,
		tx:       newTxRunner(store, o),
		ledger:   ledger,
		validate: validator.New(),
	}
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, _, err := readDocument(ctx, s.store, domain.ProductsDocument, emptyProducts)
	if err != nil {
		s.LogError(ctx, err, "Failed to read products")
		return nil, err
	}
	return products, nil
}

func (s *inventoryService) GetMyStore(ctx context.Context, identity domain.Identity) (*domain.Store, error) {
	stores, _, err := readDocument(ctx, s.store, domain.StoresDocument, emptyStores)
	if err != nil {
		s.LogError(ctx, err, "Failed to read stores", slog.Int64("user_id", identity.UserID))
		return nil, err
	}
	for _, st := range stores {
		if st.OwnerTelegramID == identity.UserID {
			found := st
			return &found, nil
		}
	}
	return nil, nil
}

// normalizeCart validates every line and merges lines for the same product.
// The result is ordered by product id.
func (s *inventoryService) normalizeCart(cart []domain.CartLine) ([]domain.CartLine, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	qty := make(map[int64]int, len(cart))
	for i, line := range cart {
		if err := s.validate.Struct(line); err != nil {
			return nil, fmt.Errorf("%w: cart line %d: %v", apperrors.ErrValidation, i, err)
		}
		qty[line.ProductID] += line.Qty
	}

	merged := make([]domain.CartLine, 0, len(qty))
	for id, q := range qty {
		merged = append(merged, domain.CartLine{ProductID: id, Qty: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

// cartTotal checks availability of every line against products and prices the cart.
func cartTotal(products domain.Products, cart []domain.CartLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range cart {
		i := products.FindByID(line.ProductID)
		if i < 0 {
			return decimal.Zero, fmt.Errorf("%w: product %d does not exist", apperrors.ErrProductUnavailable, line.ProductID)
		}
		if products[i].Stock < line.Qty {
			return decimal.Zero, fmt.Errorf("%w: only %d of %q left", apperrors.ErrProductUnavailable, products[i].Stock, products[i].Title)
		}
		total = total.Add(products[i].Price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return total, nil
}

func describeCart(products domain.Products, cart []domain.CartLine) string {
	parts := make([]string, 0, len(cart))
	for _, line := range cart {
		title := fmt.Sprintf("#%d", line.ProductID)
		if i := products.FindByID(line.ProductID); i >= 0 {
			title = products[i].Title
		}
		parts = append(parts, fmt.Sprintf("%s x%d", title, line.Qty))
	}
	return strings.Join(parts, ", ")
}

func (s *inventoryService) Purchase(ctx context.Context, identity domain.Identity, cart []domain.CartLine) (decimal.Decimal, error) {
	logger := s.GetLogger(ctx).With(slog.Int64("user_id", identity.UserID))

	lines, err := s.normalizeCart(cart)
	if err != nil {
		return decimal.Zero, err
	}

	// Pre-check without writing anything.
	products, _, err := readDocument(ctx, s.store, domain.ProductsDocument, emptyProducts)
	if err != nil {
		return decimal.Zero, err
	}
	estimate, err := cartTotal(products, lines)
	if err != nil {
		return decimal.Zero, err
	}
	account, err := s.ledger.GetAccount(ctx, identity)
	if err != nil {
		return decimal.Zero, err
	}
	if account.Balance.LessThan(estimate) {
		return decimal.Zero, apperrors.ErrInsufficientFunds
	}

	// Step A: reserve stock. The charged total is the one priced on the version that was written.
	var total decimal.Decimal
	var comment string
	_, err = updateDocument(ctx, s.tx, domain.ProductsDocument, emptyProducts, func(doc *domain.Products) error {
		t, err := cartTotal(*doc, lines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			i := doc.FindByID(line.ProductID)
			(*doc)[i].Stock -= line.Qty
			(*doc)[i].SoldCount += line.Qty
		}
		total = t
		comment = describeCart(*doc, lines)
		return nil
	})
	if err != nil {
		logger.Error("Failed to reserve stock", slog.String("error", err.Error()))
		return decimal.Zero, err
	}

	// Step B: charge the buyer. A free cart leaves the balance untouched.
	var newBalance decimal.Decimal
	var debitErr error
	if total.IsZero() {
		var current *domain.Account
		if current, debitErr = s.ledger.GetAccount(ctx, identity); debitErr == nil {
			newBalance = current.Balance
		}
	} else {
		newBalance, debitErr = s.ledger.Debit(ctx, identity, total)
	}
	if debitErr != nil {
		logger.Error("Debit failed, releasing reserved stock",
			slog.String("error", debitErr.Error()),
			slog.String("total", total.String()),
		)
		if err := s.releaseStock(context.WithoutCancel(ctx), lines); err != nil {
			logger.Error("Failed to release reserved stock",
				slog.String("error", err.Error()),
				slog.String("cart", comment),
			)
			return decimal.Zero, fmt.Errorf("%w: stock reserved for %s but buyer not charged: %v", apperrors.ErrInconsistentState, comment, errors.Join(debitErr, err))
		}
		return decimal.Zero, debitErr
	}

	if err := s.ledger.RecordPurchase(ctx, identity, total, comment); err != nil {
		logger.Warn("Purchase completed without history entry", slog.String("error", err.Error()))
	}

	logger.Info("Purchase completed", slog.String("total", total.String()), slog.String("cart", comment))
	return newBalance, nil
}

// releaseStock applies the inverse of a reservation.
func (s *inventoryService) releaseStock(ctx context.Context, lines []domain.CartLine) error {
	_, err := updateDocument(ctx, s.tx, domain.ProductsDocument, emptyProducts, func(doc *domain.Products) error {
		for _, line := range lines {
			i := doc.FindByID(line.ProductID)
			if i < 0 {
				continue
			}
			(*doc)[i].Stock += line.Qty
			(*doc)[i].SoldCount -= line.Qty
			if (*doc)[i].SoldCount < 0 {
				(*doc)[i].SoldCount = 0
			}
		}
		return nil
	})
	return err
}
