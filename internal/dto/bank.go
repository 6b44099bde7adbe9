package dto

import (
	"github.com/shopspring/decimal"
)

// TransferRequest moves money to another user.
type TransferRequest struct {
	To      string          `json:"to" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment"`
}

// BalanceResponse is returned by balance changing operations.
type BalanceResponse struct {
	Success bool            `json:"success"`
	Balance decimal.Decimal `json:"balance"`
}

// ListHistoryParams defines query parameters for the transaction history.
type ListHistoryParams struct {
	Limit int `form:"limit,default=100"`
}
