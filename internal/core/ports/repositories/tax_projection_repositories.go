package repositories

import (
	"context"
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
)

// ProjectionFilter narrows projection queries. Nil fields are ignored.
type ProjectionFilter struct {
	ReferenceMonth *domain.ReferenceMonth
	Status         *domain.ProjectionStatus
	TaxType        *domain.TaxType
	DueFrom        *time.Time
	DueTo          *time.Time
	Year           *int // matches the reference month's year
}

// TaxProjectionReader defines read operations for projection data. All lookups are
// scoped by the owning user.
type TaxProjectionReader interface {
	// FindProjectionByID retrieves one projection, or apperrors.ErrNotFound if it does
	// not exist or belongs to another user.
	FindProjectionByID(ctx context.Context, userID string, projectionID string) (*domain.TaxProjection, error)

	// ListProjections returns the user's projections matching the filter, ordered by
	// due date then tax type.
	ListProjections(ctx context.Context, userID string, filter ProjectionFilter) ([]domain.TaxProjection, error)

	// FindInstallments returns the child installments of a parent projection ordered by
	// installment number.
	FindInstallments(ctx context.Context, userID string, parentProjectionID string) ([]domain.TaxProjection, error)
}

// TaxProjectionWriter defines write operations for projection data.
type TaxProjectionWriter interface {
	// SaveProjections inserts a batch of projections as one atomic unit, so a parent is
	// never persisted without its installments.
	SaveProjections(ctx context.Context, projections []domain.TaxProjection) error

	// UpdateProjection persists mutated fields of an existing projection.
	UpdateProjection(ctx context.Context, projection domain.TaxProjection) error

	// DeleteProjections removes the given projections in one atomic unit.
	DeleteProjections(ctx context.Context, userID string, projectionIDs []string) error
}

// TaxProjectionRepositoryFacade combines all projection repository interfaces.
type TaxProjectionRepositoryFacade interface {
	TaxProjectionReader
	TaxProjectionWriter
}
