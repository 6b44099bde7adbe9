package services

import (
	"context"
	"encoding/json"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
)

// RecordSvcFacade stores free form personal records per user.
type RecordSvcFacade interface {
	// GetRecords returns the stored value or an empty JSON object.
	GetRecords(ctx context.Context, identity domain.Identity) (json.RawMessage, error)
	// SetRecords replaces the stored value.
	SetRecords(ctx context.Context, identity domain.Identity, records json.RawMessage) error
}
