package domain

import "github.com/shopspring/decimal"

// TransactionType classifies a history entry.
type TransactionType string

const (
	TransferTransaction TransactionType = "transfer"
	PurchaseTransaction TransactionType = "purchase"
)

// Transaction is an immutable entry of the bank history document.
// FromID and ToID are zero for entries written before ids were recorded.
type Transaction struct {
	ID      string          `json:"id,omitempty"`
	Time    Timestamp       `json:"time"`
	FromID  int64           `json:"from_id,omitempty"`
	From    string          `json:"from"`
	ToID    int64           `json:"to_id,omitempty"`
	To      string          `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment"`
	Type    TransactionType `json:"type"`
}

// Involves reports whether the identity sent or received the transaction.
// Entries without ids are matched by username.
func (t Transaction) Involves(identity Identity) bool {
	if t.FromID != 0 || t.ToID != 0 {
		return t.FromID == identity.UserID || t.ToID == identity.UserID
	}
	name := identity.DisplayName()
	return t.From == name || t.To == name
}
