package dto

import (
	"time"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
)

// TelegramAuthRequest carries the raw Telegram.WebApp.initData string.
type TelegramAuthRequest struct {
	InitData string `json:"initData" binding:"required"`
}

// UserInfo is the public view of an identity.
type UserInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Success   bool      `json:"success"`
	User      UserInfo  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthCheckResponse reports whether the request carries a valid session.
type AuthCheckResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}

// ToUserInfo converts an identity, using the display name as username.
func ToUserInfo(identity domain.Identity) UserInfo {
	return UserInfo{
		ID:        identity.UserID,
		Username:  identity.DisplayName(),
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	}
}

// ToAuthResponse converts a session into the login response.
func ToAuthResponse(session *domain.Session) AuthResponse {
	return AuthResponse{
		Success:   true,
		User:      ToUserInfo(session.Identity),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}
}
