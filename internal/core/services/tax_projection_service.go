package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
)

// installmentSurcharge is the 1% interest applied to every installment after the first.
var installmentSurcharge = decimal.RequireFromString("1.01")

var (
	projectionsCalculated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imovelbooks_projections_calculated_total",
		Help: "Tax projections produced by calculation runs, by tax type.",
	}, []string{"tax_type"})

	projectionsConfirmed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "imovelbooks_projections_confirmed_total",
		Help: "Tax projections confirmed into ledger transactions, by tax type.",
	}, []string{"tax_type"})
)

// taxProjectionService manages the projection lifecycle: calculation, installment
// expansion, manual edits, confirmation and recalculation.
//
// Two concurrent recalculations for the same reference month are not defended against;
// for this single-user tool, serializing writes is delegated to the persistence layer.
type taxProjectionService struct {
	calculator     portssvc.TaxCalculatorSvcFacade
	settingsSvc    portssvc.TaxSettingsSvcFacade
	projectionRepo portsrepo.TaxProjectionRepositoryFacade
	txnRepo        portsrepo.TransactionRepositoryFacade
}

// NewTaxProjectionService creates a new TaxProjectionService.
func NewTaxProjectionService(
	calculator portssvc.TaxCalculatorSvcFacade,
	settingsSvc portssvc.TaxSettingsSvcFacade,
	projectionRepo portsrepo.TaxProjectionRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
) portssvc.TaxProjectionSvcFacade {
	return &taxProjectionService{
		calculator:     calculator,
		settingsSvc:    settingsSvc,
		projectionRepo: projectionRepo,
		txnRepo:        txnRepo,
	}
}

var _ portssvc.TaxProjectionSvcFacade = (*taxProjectionService)(nil)

// CalculateTaxProjections runs the calculator for the month and persists the results.
// Amounts above a tax's installment threshold expand into installment children; the
// parent row and all of its children are written as one atomic batch.
func (s *taxProjectionService) CalculateTaxProjections(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string) ([]domain.TaxProjection, error) {
	return s.calculateAndPersist(ctx, userID, month, propertyIDs, nil)
}

// calculateAndPersist computes projections and stores them, skipping any tax type in
// excludeTypes (used by recalculation to avoid duplicating surviving projections).
func (s *taxProjectionService) calculateAndPersist(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string, excludeTypes map[domain.TaxType]bool) ([]domain.TaxProjection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	computed, err := s.calculator.CalculateForMonth(ctx, userID, month, propertyIDs)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.GetActiveSettings(ctx, userID, nil, month.Time())
	if err != nil {
		return nil, err
	}
	settingByType := make(map[domain.TaxType]domain.TaxSetting, len(settings))
	for _, setting := range settings {
		if _, seen := settingByType[setting.TaxType]; !seen {
			settingByType[setting.TaxType] = setting
		}
	}

	var batch []domain.TaxProjection
	for _, projection := range computed {
		if excludeTypes[projection.TaxType] {
			continue
		}
		setting := settingByType[projection.TaxType]
		if shouldExpandInstallments(setting, projection.TotalAmount) {
			family, err := expandInstallments(projection, *setting.InstallmentCount)
			if err != nil {
				return nil, err
			}
			batch = append(batch, family...)
		} else {
			batch = append(batch, projection)
		}
	}
	if len(batch) == 0 {
		logger.Info("Calculation produced no projections", slog.String("reference_month", month.String()))
		return []domain.TaxProjection{}, nil
	}

	if err := s.projectionRepo.SaveProjections(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save projections: %w", err)
	}

	for _, projection := range batch {
		projectionsCalculated.WithLabelValues(string(projection.TaxType)).Inc()
	}
	logger.Info("Tax projections calculated",
		slog.String("reference_month", month.String()),
		slog.Int("count", len(batch)),
	)
	return batch, nil
}

func shouldExpandInstallments(setting domain.TaxSetting, total domain.Money) bool {
	return setting.InstallmentAllowed &&
		setting.InstallmentThreshold != nil &&
		setting.InstallmentCount != nil &&
		*setting.InstallmentCount >= 2 &&
		total.GreaterThan(*setting.InstallmentThreshold)
}

// expandInstallments turns one projection into a parent plus n installment children.
// The base installment is the first value of an exact split; installments 2..n carry a
// 1% surcharge because deferred payments accrue interest. The parent keeps the
// undiscounted total for audit, so the children's sum exceeds the parent's total by
// exactly the accrued interest. This is the one deliberate exception to the exact-sum
// rule that distributions obey.
func expandInstallments(parent domain.TaxProjection, count int) ([]domain.TaxProjection, error) {
	parts, err := parent.TotalAmount.Split(count)
	if err != nil {
		return nil, err
	}
	base := parts[0]
	surcharged := base.Multiply(installmentSurcharge).Round()

	family := make([]domain.TaxProjection, 0, count+1)
	family = append(family, parent)
	for i := 1; i <= count; i++ {
		amount := base
		if i > 1 {
			amount = surcharged
		}
		number := i
		child := domain.TaxProjection{
			ProjectionID:       uuid.NewString(),
			UserID:             parent.UserID,
			TaxType:            parent.TaxType,
			ReferenceMonth:     parent.ReferenceMonth,
			DueDate:            stepMonths(parent.DueDate, i-1),
			BaseAmount:         parent.BaseAmount,
			TaxAmount:          amount,
			AdditionalAmount:   domain.ZeroMoney(),
			TotalAmount:        amount,
			Status:             domain.StatusProjected,
			IsInstallment:      true,
			InstallmentNumber:  &number,
			ParentProjectionID: &parent.ProjectionID,
			AuditFields:        parent.AuditFields,
		}
		family = append(family, child)
	}
	return family, nil
}

// GetTaxProjections lists the user's projections matching the filters.
func (s *taxProjectionService) GetTaxProjections(ctx context.Context, userID string, params dto.ListProjectionsParams) ([]domain.TaxProjection, error) {
	filter, err := buildProjectionFilter(params)
	if err != nil {
		return nil, err
	}
	projections, err := s.projectionRepo.ListProjections(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	return projections, nil
}

func buildProjectionFilter(params dto.ListProjectionsParams) (portsrepo.ProjectionFilter, error) {
	var filter portsrepo.ProjectionFilter
	if params.ReferenceMonth != nil {
		month, err := domain.ParseReferenceMonth(*params.ReferenceMonth)
		if err != nil {
			return filter, err
		}
		filter.ReferenceMonth = &month
	}
	if params.Status != nil {
		status := domain.ProjectionStatus(*params.Status)
		filter.Status = &status
	}
	if params.TaxType != nil {
		taxType := domain.TaxType(*params.TaxType)
		filter.TaxType = &taxType
	}
	if params.DueFrom != nil {
		from, err := time.Parse("2006-01-02", *params.DueFrom)
		if err != nil {
			return filter, fmt.Errorf("%w: dueFrom must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		filter.DueFrom = &from
	}
	if params.DueTo != nil {
		to, err := time.Parse("2006-01-02", *params.DueTo)
		if err != nil {
			return filter, fmt.Errorf("%w: dueTo must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		filter.DueTo = &to
	}
	return filter, nil
}

// UpdateProjection applies a manual edit. The first amount edit preserves the original
// value and flags the projection as manually overridden, exempting it from automatic
// recalculation.
func (s *taxProjectionService) UpdateProjection(ctx context.Context, userID string, projectionID string, req dto.UpdateProjectionRequest) (*domain.TaxProjection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	projection, err := s.projectionRepo.FindProjectionByID(ctx, userID, projectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find projection %s: %w", projectionID, err)
	}
	if projection.IsConfirmed() {
		return nil, fmt.Errorf("%w: confirmed projections are immutable", apperrors.ErrInvalidState)
	}

	if req.TotalAmount != nil {
		if req.TotalAmount.IsNegative() {
			return nil, fmt.Errorf("%w: projection amount must not be negative", apperrors.ErrValidation)
		}
		if projection.OriginalAmount == nil {
			original := projection.TotalAmount
			projection.OriginalAmount = &original
		}
		projection.TotalAmount = *req.TotalAmount
		projection.ManualOverride = true
	}
	if req.Notes != nil {
		projection.Notes = *req.Notes
	}

	now := time.Now().UTC()
	projection.LastUpdatedAt = now
	projection.LastUpdatedBy = userID

	if err := s.projectionRepo.UpdateProjection(ctx, *projection); err != nil {
		return nil, fmt.Errorf("failed to update projection %s: %w", projectionID, err)
	}

	logger.Info("Projection updated",
		slog.String("projection_id", projectionID),
		slog.Bool("manual_override", projection.ManualOverride),
	)
	return projection, nil
}

// ConfirmProjection books a ledger expense dated at the due date for the projection
// total, records the created transaction's id and moves the projection to its terminal
// confirmed state. A second confirmation fails with apperrors.ErrAlreadyConfirmed;
// confirmation is not safely retryable without this guard.
func (s *taxProjectionService) ConfirmProjection(ctx context.Context, userID string, projectionID string) (*domain.TaxProjection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	projection, err := s.projectionRepo.FindProjectionByID(ctx, userID, projectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find projection %s: %w", projectionID, err)
	}
	if projection.IsConfirmed() {
		return nil, fmt.Errorf("%w: projection %s", apperrors.ErrAlreadyConfirmed, projectionID)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Type:          domain.Expense,
		Description:   confirmationDescription(projection),
		Amount:        projection.TotalAmount,
		Date:          projection.DueDate,
		Category:      domain.CategoryTax,
		CurrencyCode:  "BRL",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create ledger transaction for projection %s: %w", projectionID, err)
	}

	projection.Status = domain.StatusConfirmed
	projection.TransactionID = &txn.TransactionID
	projection.LastUpdatedAt = now
	projection.LastUpdatedBy = userID
	if err := s.projectionRepo.UpdateProjection(ctx, *projection); err != nil {
		return nil, fmt.Errorf("failed to mark projection %s confirmed: %w", projectionID, err)
	}

	projectionsConfirmed.WithLabelValues(string(projection.TaxType)).Inc()
	logger.Info("Projection confirmed",
		slog.String("projection_id", projectionID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", projection.TotalAmount.String()),
	)
	return projection, nil
}

func confirmationDescription(p *domain.TaxProjection) string {
	if p.IsInstallment && p.InstallmentNumber != nil {
		return fmt.Sprintf("%s %s - parcela %d", p.TaxType, p.ReferenceMonth, *p.InstallmentNumber)
	}
	return fmt.Sprintf("%s %s", p.TaxType, p.ReferenceMonth)
}

// RecalculateForMonth deletes the month's projections that are still projected and
// unedited, then regenerates them. Confirmed or manually overridden projections (and
// their installment families) survive with identity intact: this is the consistency
// rule that keeps user edits and booked payments from being silently erased when
// revenue changes retroactively.
func (s *taxProjectionService) RecalculateForMonth(ctx context.Context, userID string, month domain.ReferenceMonth) ([]domain.TaxProjection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.projectionRepo.ListProjections(ctx, userID, portsrepo.ProjectionFilter{ReferenceMonth: &month})
	if err != nil {
		return nil, fmt.Errorf("failed to list projections for %s: %w", month, err)
	}

	// Group installment families under their root; a family is only replaceable when
	// every member is still projected and unedited.
	families := make(map[string][]domain.TaxProjection)
	for _, projection := range existing {
		root := projection.ProjectionID
		if projection.ParentProjectionID != nil {
			root = *projection.ParentProjectionID
		}
		families[root] = append(families[root], projection)
	}

	var deletable []string
	surviving := make(map[domain.TaxType]bool)
	for _, family := range families {
		replaceable := true
		for _, member := range family {
			if member.IsConfirmed() || member.ManualOverride {
				replaceable = false
				break
			}
		}
		if replaceable {
			for _, member := range family {
				deletable = append(deletable, member.ProjectionID)
			}
		} else {
			for _, member := range family {
				surviving[member.TaxType] = true
			}
		}
	}

	if len(deletable) > 0 {
		if err := s.projectionRepo.DeleteProjections(ctx, userID, deletable); err != nil {
			return nil, fmt.Errorf("failed to delete projections for %s: %w", month, err)
		}
	}

	logger.Info("Recalculating month",
		slog.String("reference_month", month.String()),
		slog.Int("deleted", len(deletable)),
		slog.Int("surviving_tax_types", len(surviving)),
	)
	return s.calculateAndPersist(ctx, userID, month, nil, surviving)
}

// DeleteProjection removes a projection and cascades to its installment children.
// It fails with apperrors.ErrInvalidState when the projection or any child is
// confirmed; confirmed projections are immutable.
func (s *taxProjectionService) DeleteProjection(ctx context.Context, userID string, projectionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	projection, err := s.projectionRepo.FindProjectionByID(ctx, userID, projectionID)
	if err != nil {
		return fmt.Errorf("failed to find projection %s: %w", projectionID, err)
	}
	if projection.IsConfirmed() {
		return fmt.Errorf("%w: confirmed projections cannot be deleted", apperrors.ErrInvalidState)
	}

	ids := []string{projection.ProjectionID}
	if !projection.IsInstallment {
		children, err := s.projectionRepo.FindInstallments(ctx, userID, projection.ProjectionID)
		if err != nil {
			return fmt.Errorf("failed to load installments of %s: %w", projectionID, err)
		}
		for _, child := range children {
			if child.IsConfirmed() {
				return fmt.Errorf("%w: installment %s is confirmed", apperrors.ErrInvalidState, child.ProjectionID)
			}
			ids = append(ids, child.ProjectionID)
		}
	}

	if err := s.projectionRepo.DeleteProjections(ctx, userID, ids); err != nil {
		return fmt.Errorf("failed to delete projection %s: %w", projectionID, err)
	}

	logger.Info("Projection deleted",
		slog.String("projection_id", projectionID),
		slog.Int("cascade_count", len(ids)-1),
	)
	return nil
}
