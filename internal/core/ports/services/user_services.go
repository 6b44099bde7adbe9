package services

import (
	"context"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUser retrieves a registered user by Telegram id.
	GetUser(ctx context.Context, telegramID int64) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterIdentity returns the user for the identity, creating it on first login.
	RegisterIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
