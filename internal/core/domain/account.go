package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Account is a bank account of a mini app user. All accounts live in one document.
type Account struct {
	TelegramID int64           `json:"telegram_id"`
	Username   string          `json:"username"`
	Balance    decimal.Decimal `json:"balance"`
	IsAdmin    bool            `json:"isAdmin"`
	Deleted    bool            `json:"deleted"`
	CreatedAt  Timestamp       `json:"createdAt"`

	// Extra keeps fields this version does not model (e.g. "online") so that
	// rewriting the document does not drop them.
	Extra map[string]json.RawMessage `json:"-"`
}

var accountFields = []string{"telegram_id", "username", "balance", "isAdmin", "deleted", "createdAt"}

type accountJSON Account

func (a Account) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(accountJSON(a))
	if err != nil || len(a.Extra) == 0 {
		return known, err
	}
	merged := make(map[string]json.RawMessage, len(a.Extra)+len(accountFields))
	for k, v := range a.Extra {
		merged[k] = v
	}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var known accountJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, f := range accountFields {
		delete(all, f)
	}
	known.Extra = nil
	if len(all) > 0 {
		known.Extra = all
	}
	*a = Account(known)
	return nil
}

// Accounts is the content of the accounts document.
type Accounts []Account

// FindByID returns the index of the account owned by telegramID, or -1.
func (a Accounts) FindByID(telegramID int64) int {
	for i := range a {
		if a[i].TelegramID == telegramID {
			return i
		}
	}
	return -1
}

// FindActiveByUsername returns the index of the non deleted account with the given username, or -1.
func (a Accounts) FindActiveByUsername(username string) int {
	for i := range a {
		if a[i].Username == username && !a[i].Deleted {
			return i
		}
	}
	return -1
}

// Total sums every balance in the document.
func (a Accounts) Total() decimal.Decimal {
	total := decimal.Zero
	for _, acc := range a {
		total = total.Add(acc.Balance)
	}
	return total
}
