package services

import (
	"fmt"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
)

var (
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	ErrSelfTransfer     = fmt.Errorf("%w: cannot transfer to yourself", apperrors.ErrValidation)
	ErrEmptyCart        = fmt.Errorf("%w: cart is empty", apperrors.ErrValidation)
	ErrAccountNotFound  = fmt.Errorf("%w: account not found", apperrors.ErrNotFound)
	ErrShiftAlreadyOpen = fmt.Errorf("%w: shift already started", apperrors.ErrShiftState)
	ErrNoOpenShift      = fmt.Errorf("%w: no running shift", apperrors.ErrShiftState)
)
