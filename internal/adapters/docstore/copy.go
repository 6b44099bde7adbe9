package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/homeos_backend/internal/middleware"
)

// CopyReport lists the outcome per document of a Copy run.
type CopyReport struct {
	Copied  []domain.DocumentKey
	Missing []domain.DocumentKey
}

// Copy writes every document of src into dst, overwriting what dst holds.
// Each write uses the version dst reported just before, so a concurrent
// writer on dst makes the copy of that document fail instead of being lost.
func Copy(ctx context.Context, src, dst portsrepo.VersionedDocumentStore, keys []domain.DocumentKey) (*CopyReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	report := &CopyReport{}

	for _, key := range keys {
		doc, err := src.Read(ctx, key)
		if errors.Is(err, apperrors.ErrNotFound) {
			report.Missing = append(report.Missing, key)
			continue
		}
		if err != nil {
			return report, fmt.Errorf("read %s from %s: %w", key, src.Name(), err)
		}

		expected := portsrepo.NoVersion
		current, err := dst.Read(ctx, key)
		switch {
		case err == nil:
			expected = current.Version
		case !errors.Is(err, apperrors.ErrNotFound):
			return report, fmt.Errorf("read %s from %s: %w", key, dst.Name(), err)
		}

		if _, err := dst.Write(ctx, key, doc.Body, expected); err != nil {
			return report, fmt.Errorf("write %s to %s: %w", key, dst.Name(), err)
		}
		logger.Info("Document copied", slog.String("document", string(key)), slog.String("from", src.Name()), slog.String("to", dst.Name()))
		report.Copied = append(report.Copied, key)
	}
	return report, nil
}

// SelectDocuments resolves document names such as "accounts" to keys.
// No names selects every document.
func SelectDocuments(names []string) ([]domain.DocumentKey, error) {
	all := domain.AllDocuments()
	if len(names) == 0 {
		return all, nil
	}
	known := make(map[string]domain.DocumentKey, len(all))
	for _, k := range all {
		known[k.String()] = k
	}
	keys := make([]domain.DocumentKey, 0, len(names))
	for _, name := range names {
		k, ok := known[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown document %q", apperrors.ErrValidation, name)
		}
		keys = append(keys, k)
	}
	return keys, nil
}
