package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
)

const defaultLanguage = "ru"

type userService struct {
	BaseService
	store portsrepo.VersionedDocumentStore
	tx    *txRunner
	opts  serviceOptions
}

// NewUserService creates the user directory backed by the users document.
func NewUserService(store portsrepo.VersionedDocumentStore, opts ...Option) portssvc.UserSvcFacade {
	o := applyOptions(opts)
	return &userService{store: store, tx: newTxRunner(store, o), opts: o}
}

func (s *userService) RegisterIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	var (
		user    domain.User
		created bool
	)
	_, err := updateDocument(ctx, s.tx, domain.UsersDocument, emptyUsers, func(doc *[]domain.User) error {
		created = false
		for i := range *doc {
			if (*doc)[i].TelegramID != identity.UserID {
				continue
			}
			u := &(*doc)[i]
			if u.Username == identity.Username && u.FirstName == identity.FirstName && u.LastName == identity.LastName {
				user = *u
				return errNoChange
			}
			u.Username = identity.Username
			u.FirstName = identity.FirstName
			u.LastName = identity.LastName
			user = *u
			return nil
		}

		user = domain.User{
			TelegramID: identity.UserID,
			Username:   identity.Username,
			FirstName:  identity.FirstName,
			LastName:   identity.LastName,
			Language:   defaultLanguage,
			CreatedAt:  domain.NewTimestamp(s.opts.now()),
		}
		*doc = append(*doc, user)
		created = true
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to register user", slog.Int64("user_id", identity.UserID))
		return nil, err
	}

	if created {
		s.LogInfo(ctx, "User registered", slog.Int64("user_id", identity.UserID), slog.String("username", identity.Username))
	}
	return &user, nil
}

func (s *userService) GetUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	users, _, err := readDocument(ctx, s.store, domain.UsersDocument, emptyUsers)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.TelegramID == telegramID {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, telegramID)
}
