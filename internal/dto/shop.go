package dto

import "github.com/SscSPs/homeos_backend/internal/core/domain"

// PurchaseRequest is a shopping cart checkout.
type PurchaseRequest struct {
	Cart []domain.CartLine `json:"cart"`
}
