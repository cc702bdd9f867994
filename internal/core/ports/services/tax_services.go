package services

import (
	"context"
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
)

// TaxSettingsSvcFacade manages the versioned tax rule set.
type TaxSettingsSvcFacade interface {
	// GetActiveSettings returns the setting versions active at referenceDate, most
	// recent first. taxType narrows the result when non-nil.
	GetActiveSettings(ctx context.Context, userID string, taxType *domain.TaxType, referenceDate time.Time) ([]domain.TaxSetting, error)

	// UpdateSettings closes the open version for the tax type and inserts a new one
	// effective today. Fails with apperrors.ErrConflict when no open version exists.
	UpdateSettings(ctx context.Context, userID string, taxType domain.TaxType, req dto.UpdateTaxSettingRequest) (*domain.TaxSetting, error)

	// InitializeDefaults installs the default presumed-profit rule set. Idempotent:
	// a no-op when every known tax type already has an open version.
	InitializeDefaults(ctx context.Context, userID string) error
}

// TaxCalculatorSvcFacade computes tax amounts from aggregated revenue. Results are not
// persisted; the projection lifecycle manager owns persistence.
type TaxCalculatorSvcFacade interface {
	// CalculateForMonth produces one projection per applicable tax for the reference
	// month. Zero revenue yields an empty result, not an error. Quarterly taxes are
	// only computed when the month closes a quarter.
	CalculateForMonth(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string) ([]domain.TaxProjection, error)
}

// TaxProjectionSvcFacade manages the projection lifecycle from calculation through
// confirmation.
type TaxProjectionSvcFacade interface {
	// CalculateTaxProjections runs the calculator and persists the results, expanding
	// amounts above the installment threshold into child installments.
	CalculateTaxProjections(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string) ([]domain.TaxProjection, error)

	// GetTaxProjections lists the user's projections matching the filters.
	GetTaxProjections(ctx context.Context, userID string, params dto.ListProjectionsParams) ([]domain.TaxProjection, error)

	// UpdateProjection applies a manual edit, preserving the original amount.
	UpdateProjection(ctx context.Context, userID string, projectionID string, req dto.UpdateProjectionRequest) (*domain.TaxProjection, error)

	// ConfirmProjection books the ledger expense for the projection and marks it
	// confirmed. Fails with apperrors.ErrAlreadyConfirmed on a second call.
	ConfirmProjection(ctx context.Context, userID string, projectionID string) (*domain.TaxProjection, error)

	// RecalculateForMonth regenerates the month's projections, preserving confirmed and
	// manually overridden rows.
	RecalculateForMonth(ctx context.Context, userID string, month domain.ReferenceMonth) ([]domain.TaxProjection, error)

	// DeleteProjection removes a projection and its installments. Fails with
	// apperrors.ErrInvalidState when the projection or any installment is confirmed.
	DeleteProjection(ctx context.Context, userID string, projectionID string) error
}

// PaymentSvcFacade materializes distributed payments as composite ledger records.
type PaymentSvcFacade interface {
	CreateDistributedTaxPayment(ctx context.Context, userID string, req dto.CreateDistributedPaymentRequest) (*domain.CompositeTransaction, error)
	CreateManagementExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.CompositeTransaction, error)
	CreateMauricioExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.CompositeTransaction, error)
}

// ReportingSvcFacade exposes projection data to the reporting surface.
type ReportingSvcFacade interface {
	GenerateTaxPreview(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string) (*dto.TaxPreviewResponse, error)
	CalculatePisCofins(ctx context.Context, userID string, month domain.ReferenceMonth) (*dto.PisCofinsResponse, error)
	GetTaxSummary(ctx context.Context, userID string, year int) (*dto.TaxSummaryResponse, error)
	GetMonthlyComparison(ctx context.Context, userID string, year int) (*dto.MonthlyComparisonResponse, error)
}
