package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/SscSPs/homeos_backend/internal/utils"
)

// authService exchanges verified Telegram init data for a signed session token.
type authService struct {
	BaseService
	cfg      *config.Config
	verifier portssvc.IdentityVerifier
	users    portssvc.UserSvcFacade
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, verifier portssvc.IdentityVerifier, users portssvc.UserSvcFacade) portssvc.AuthSvcFacade {
	return &authService{
		cfg:      cfg,
		verifier: verifier,
		users:    users,
	}
}

// Authenticate verifies initData, makes sure the user is registered and issues a session JWT.
func (s *authService) Authenticate(ctx context.Context, initData string) (*domain.Session, error) {
	identity, err := s.verifier.Verify(initData)
	if err != nil {
		s.GetLogger(ctx).Warn("Rejected Telegram init data", slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}

	if _, err := s.users.RegisterIdentity(ctx, *identity); err != nil {
		return nil, err
	}

	token, expiresAt, err := utils.GenerateSessionJWT(*identity, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate session token", slog.Int64("user_id", identity.UserID))
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.LogInfo(ctx, "User authenticated", slog.Int64("user_id", identity.UserID))
	return &domain.Session{
		Identity:  *identity,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseSession validates a session token and returns the identity it carries.
func (s *authService) ParseSession(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := utils.ParseSessionJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	identity := claims.Identity()
	return &identity, nil
}
