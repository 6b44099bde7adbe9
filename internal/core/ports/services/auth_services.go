package services

import (
	"context"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
)

// AuthSvcFacade turns Telegram init data into an authenticated session.
type AuthSvcFacade interface {
	// Authenticate verifies initData, registers the user and issues a session token.
	Authenticate(ctx context.Context, initData string) (*domain.Session, error)
	// ParseSession validates a session token and returns its identity.
	ParseSession(ctx context.Context, token string) (*domain.Identity, error)
}

// IdentityVerifier checks signed Telegram init data and extracts the caller.
type IdentityVerifier interface {
	Verify(initData string) (*domain.Identity, error)
}
