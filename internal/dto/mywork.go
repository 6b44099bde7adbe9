package dto

import "github.com/shopspring/decimal"

// StopShiftRequest closes the running shift.
type StopShiftRequest struct {
	Minutes int             `json:"minutes"`
	Pay     decimal.Decimal `json:"pay"`
}
