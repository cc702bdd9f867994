package repositories

import (
	"context"
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
)

// TaxSettingReader defines read operations over the versioned tax settings sequence.
type TaxSettingReader interface {
	// FindActiveSettings returns the settings whose validity interval contains the
	// reference date, most recent first. taxType narrows the result when non-nil.
	FindActiveSettings(ctx context.Context, userID string, taxType *domain.TaxType, referenceDate time.Time) ([]domain.TaxSetting, error)

	// FindOpenSetting returns the current (EndDate IS NULL) version for a tax type, or
	// apperrors.ErrNotFound if the sequence has no open version.
	FindOpenSetting(ctx context.Context, userID string, taxType domain.TaxType) (*domain.TaxSetting, error)

	// FindOpenSettings returns every open setting version for the user.
	FindOpenSettings(ctx context.Context, userID string) ([]domain.TaxSetting, error)
}

// TaxSettingWriter defines append-only write operations; settings rows are never
// updated destructively.
type TaxSettingWriter interface {
	// SaveSettings inserts new setting versions.
	SaveSettings(ctx context.Context, settings []domain.TaxSetting) error

	// RotateSetting closes the open version (stamping its end date) and inserts its
	// successor in one atomic unit, so the sequence never loses its open version
	// between the two writes.
	RotateSetting(ctx context.Context, closeSettingID string, endDate time.Time, next domain.TaxSetting) error
}

// TaxSettingRepositoryFacade combines all tax setting repository interfaces.
type TaxSettingRepositoryFacade interface {
	TaxSettingReader
	TaxSettingWriter
}
