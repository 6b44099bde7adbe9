package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse acknowledges a mutation without payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// HealthResponse reports whether the server is usable.
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Backend       string `json:"backend"`
	Versioned     bool   `json:"versioned"`
	BotConfigured bool   `json:"bot_configured"`
}

// SeedResponse is returned by the storage initialization endpoint.
type SeedResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}
