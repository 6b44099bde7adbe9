package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
)

var emptyRecord = json.RawMessage(`{}`)

type recordService struct {
	BaseService
	store portsrepo.VersionedDocumentStore
	tx    *txRunner
}

// NewRecordService creates the personal records service.
func NewRecordService(store portsrepo.VersionedDocumentStore, opts ...Option) portssvc.RecordSvcFacade {
	return &recordService{store: store, tx: newTxRunner(store, applyOptions(opts))}
}

func (s *recordService) GetRecords(ctx context.Context, identity domain.Identity) (json.RawMessage, error) {
	records, _, err := readDocument(ctx, s.store, domain.RecordsDocument, emptyRecords)
	if err != nil {
		return nil, err
	}
	for _, key := range []string{identity.Key(), identity.LegacyKey()} {
		if value, ok := records[key]; ok && key != "" && len(value) > 0 {
			return value, nil
		}
	}
	return emptyRecord, nil
}

func (s *recordService) SetRecords(ctx context.Context, identity domain.Identity, records json.RawMessage) error {
	if len(records) == 0 || !json.Valid(records) {
		return fmt.Errorf("%w: records must be valid JSON", apperrors.ErrValidation)
	}

	_, err := updateDocument(ctx, s.tx, domain.RecordsDocument, emptyRecords, func(doc *map[string]json.RawMessage) error {
		(*doc)[identity.Key()] = records
		if legacy := identity.LegacyKey(); legacy != "" {
			delete(*doc, legacy)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save records", slog.Int64("user_id", identity.UserID))
		return err
	}
	return nil
}
