package domain

// User is a registered mini app user.
type User struct {
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Language   string    `json:"language"`
	CreatedAt  Timestamp `json:"created_at"`
}

// Store is a user owned shop front.
type Store struct {
	ID              int64     `json:"id"`
	OwnerTelegramID int64     `json:"owner_telegram_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       Timestamp `json:"createdAt"`
}
