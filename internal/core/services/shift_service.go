package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type shiftService struct {
	BaseService
	store portsrepo.VersionedDocumentStore
	tx    *txRunner
	opts  serviceOptions
}

// NewShiftService creates the work shift tracker.
func NewShiftService(store portsrepo.VersionedDocumentStore, opts ...Option) portssvc.ShiftSvcFacade {
	o := applyOptions(opts)
	return &shiftService{store: store, tx: newTxRunner(store, o), opts: o}
}

func (s *shiftService) StartShift(ctx context.Context, identity domain.Identity) (*domain.RunningShift, error) {
	shift := domain.RunningShift{
		Start:    domain.NewTimestamp(s.opts.now()),
		Username: identity.DisplayName(),
	}
	_, err := updateDocument(ctx, s.tx, domain.RunningShiftsDocument, emptyRunningShifts, func(doc *domain.RunningShifts) error {
		if _, _, open := doc.Lookup(identity); open {
			return ErrShiftAlreadyOpen
		}
		(*doc)[identity.Key()] = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Shift started", slog.Int64("user_id", identity.UserID))
	return &shift, nil
}

func (s *shiftService) StopShift(ctx context.Context, identity domain.Identity, minutes int, pay decimal.Decimal) (*domain.ShiftRecord, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("%w: minutes must not be negative", apperrors.ErrValidation)
	}
	if pay.IsNegative() {
		return nil, fmt.Errorf("%w: pay must not be negative", apperrors.ErrValidation)
	}

	var (
		claimedKey string
		claimed    domain.RunningShift
	)
	_, err := updateDocument(ctx, s.tx, domain.RunningShiftsDocument, emptyRunningShifts, func(doc *domain.RunningShifts) error {
		key, running, open := doc.Lookup(identity)
		if !open {
			return ErrNoOpenShift
		}
		claimedKey, claimed = key, running
		delete(*doc, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	record := domain.ShiftRecord{
		Start:   claimed.Start,
		End:     domain.NewTimestamp(s.opts.now()),
		Minutes: minutes,
		Pay:     pay,
	}
	_, err = updateDocument(ctx, s.tx, domain.ShiftHistoryDocument, emptyShiftHistory, func(doc *domain.ShiftHistory) error {
		doc.Prepend(identity, record)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record shift, reopening it", slog.Int64("user_id", identity.UserID))
		if restoreErr := s.reopen(context.WithoutCancel(ctx), claimedKey, claimed); restoreErr != nil {
			s.LogError(ctx, restoreErr, "Failed to reopen shift", slog.Int64("user_id", identity.UserID))
			return nil, fmt.Errorf("%w: shift closed without history record: %v", apperrors.ErrInconsistentState, restoreErr)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Shift stopped",
		slog.Int64("user_id", identity.UserID),
		slog.Int("minutes", minutes),
		slog.String("pay", pay.String()),
	)
	return &record, nil
}

func (s *shiftService) reopen(ctx context.Context, key string, shift domain.RunningShift) error {
	_, err := updateDocument(ctx, s.tx, domain.RunningShiftsDocument, emptyRunningShifts, func(doc *domain.RunningShifts) error {
		if _, open := (*doc)[key]; open {
			return errNoChange
		}
		(*doc)[key] = shift
		return nil
	})
	return err
}

func (s *shiftService) ListShifts(ctx context.Context, identity domain.Identity) ([]domain.ShiftRecord, error) {
	history, _, err := readDocument(ctx, s.store, domain.ShiftHistoryDocument, emptyShiftHistory)
	if err != nil {
		return nil, err
	}
	return history.For(identity), nil
}

func (s *shiftService) GetRunningShift(ctx context.Context, identity domain.Identity) (*domain.RunningShift, error) {
	running, _, err := readDocument(ctx, s.store, domain.RunningShiftsDocument, emptyRunningShifts)
	if err != nil {
		return nil, err
	}
	_, shift, open := running.Lookup(identity)
	if !open {
		return nil, nil
	}
	return &shift, nil
}
