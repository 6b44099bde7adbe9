package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is a shop catalog entry. Stock only changes through purchases.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SoldCount   int             `json:"soldCount"`
	Category    string          `json:"category,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Products is the content of the products document.
type Products []Product

// FindByID returns the index of the product with the given id, or -1.
func (p Products) FindByID(id int64) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}

// CartLine is one requested product and quantity of a purchase.
type CartLine struct {
	ProductID int64 `json:"id" validate:"required"`
	Qty       int   `json:"qty" validate:"gt=0"`
}
