package services

import (
	"context"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ShiftSvcFacade tracks the open/closed work shift of each user.
type ShiftSvcFacade interface {
	StartShift(ctx context.Context, identity domain.Identity) (*domain.RunningShift, error)
	StopShift(ctx context.Context, identity domain.Identity, minutes int, pay decimal.Decimal) (*domain.ShiftRecord, error)
	ListShifts(ctx context.Context, identity domain.Identity) ([]domain.ShiftRecord, error)
	// GetRunningShift returns nil when the identity has no open shift.
	GetRunningShift(ctx context.Context, identity domain.Identity) (*domain.RunningShift, error)
}
