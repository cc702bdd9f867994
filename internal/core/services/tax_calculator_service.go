package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
	"github.com/imovelbooks/imovel_books_app/internal/utils/distribution"
)

// taxCalculatorService applies the active tax rule set to aggregated revenue. It only
// computes; persistence belongs to the projection lifecycle manager.
type taxCalculatorService struct {
	settingsSvc portssvc.TaxSettingsSvcFacade
	revenueRepo portsrepo.RevenueReader
}

// NewTaxCalculatorService creates a new TaxCalculatorService.
func NewTaxCalculatorService(settingsSvc portssvc.TaxSettingsSvcFacade, revenueRepo portsrepo.RevenueReader) portssvc.TaxCalculatorSvcFacade {
	return &taxCalculatorService{
		settingsSvc: settingsSvc,
		revenueRepo: revenueRepo,
	}
}

var _ portssvc.TaxCalculatorSvcFacade = (*taxCalculatorService)(nil)

// CalculateForMonth produces one unpersisted projection per applicable tax setting.
// Months with zero revenue yield an empty result; quarterly settings only contribute
// when the reference month closes a calendar quarter, computed over the whole quarter's
// revenue.
func (s *taxCalculatorService) CalculateForMonth(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string) ([]domain.TaxProjection, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	settings, err := s.settingsSvc.GetActiveSettings(ctx, userID, nil, month.Time())
	if err != nil {
		return nil, err
	}
	// Most-recent-first ordering means the first row seen per tax type wins.
	byType := make(map[domain.TaxType]domain.TaxSetting, len(settings))
	for _, setting := range settings {
		if _, seen := byType[setting.TaxType]; !seen {
			byType[setting.TaxType] = setting
		}
	}

	monthlyRevenue, err := s.fetchRevenue(ctx, userID, month.Time(), month.End(), propertyIDs)
	if err != nil {
		return nil, err
	}

	var quarterRevenue []domain.RevenueAggregate
	now := time.Now().UTC()
	var projections []domain.TaxProjection
	for _, taxType := range domain.KnownTaxTypes {
		setting, ok := byType[taxType]
		if !ok {
			continue
		}

		rows := monthlyRevenue
		switch setting.PaymentFrequency {
		case domain.Quarterly:
			if !month.IsQuarterEnd() {
				continue
			}
			if quarterRevenue == nil {
				quarterRevenue, err = s.fetchRevenue(ctx, userID, month.QuarterStart(), month.End(), propertyIDs)
				if err != nil {
					return nil, err
				}
			}
			rows = quarterRevenue
		}

		totalRevenue := domain.TotalRevenue(rows)
		if totalRevenue.IsZero() {
			continue
		}

		taxAmount, additionalAmount := computeTaxAmounts(setting, totalRevenue)
		totalAmount := taxAmount.Add(additionalAmount)
		if totalAmount.IsZero() {
			continue
		}

		dueDate := monthlyDueDate(month, setting.DueDay)
		if setting.PaymentFrequency == domain.Quarterly {
			dueDate = quarterlyDueDate(month)
		}

		projection := domain.TaxProjection{
			ProjectionID:         uuid.NewString(),
			UserID:               userID,
			TaxType:              taxType,
			ReferenceMonth:       month,
			DueDate:              dueDate,
			BaseAmount:           totalRevenue,
			TaxAmount:            taxAmount,
			AdditionalAmount:     additionalAmount,
			TotalAmount:          totalAmount,
			Status:               domain.StatusProjected,
			PropertyDistribution: attributeToProperties(rows, totalAmount),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		projections = append(projections, projection)
	}

	logger.Debug("Tax calculation completed",
		slog.String("reference_month", month.String()),
		slog.Int("projection_count", len(projections)),
	)
	return projections, nil
}

func (s *taxCalculatorService) fetchRevenue(ctx context.Context, userID string, start, end time.Time, propertyIDs []string) ([]domain.RevenueAggregate, error) {
	rows, err := s.revenueRepo.GetRevenueByPropertyAndPeriod(ctx, userID, start, end, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue aggregate: %w", err)
	}
	// The remainder of a proportional distribution lands on the last entry, so the
	// order must not depend on the query plan.
	sort.SliceStable(rows, func(i, j int) bool {
		return revenueSortKey(rows[i]) < revenueSortKey(rows[j])
	})
	return rows, nil
}

func revenueSortKey(row domain.RevenueAggregate) string {
	if row.PropertyID == nil {
		return ""
	}
	return *row.PropertyID
}

// computeTaxAmounts returns the base tax and the bracket surtax for one setting.
// Flat taxes apply the rate to revenue directly. Presumed-profit taxes first derive
// profit as baseRate percent of revenue, then tax the profit; when revenue exceeds the
// additional threshold, the excess revenue's presumed profit is surtaxed at the
// additional rate.
func computeTaxAmounts(setting domain.TaxSetting, totalRevenue domain.Money) (domain.Money, domain.Money) {
	if !setting.IsPresumedProfit() {
		return totalRevenue.Percentage(setting.Rate), domain.ZeroMoney()
	}

	profit := totalRevenue.Percentage(*setting.BaseRate)
	taxAmount := profit.Percentage(setting.Rate)

	additional := domain.ZeroMoney()
	if setting.AdditionalRate != nil && setting.AdditionalThreshold != nil && totalRevenue.GreaterThan(*setting.AdditionalThreshold) {
		excessProfit := totalRevenue.Subtract(*setting.AdditionalThreshold).Percentage(*setting.BaseRate)
		additional = excessProfit.Percentage(*setting.AdditionalRate)
	}
	return taxAmount, additional
}

// attributeToProperties splits a computed tax across properties in proportion to their
// revenue. Informational for reporting; the booked amount is always the projection
// total.
func attributeToProperties(rows []domain.RevenueAggregate, totalAmount domain.Money) []domain.PropertyTaxShare {
	weights := make([]distribution.Weight, 0, len(rows))
	byKey := make(map[string]domain.RevenueAggregate, len(rows))
	for _, row := range rows {
		key := revenueSortKey(row)
		weights = append(weights, distribution.Weight{ID: key, Weight: row.Revenue.Decimal()})
		byKey[key] = row
	}

	shares, err := distribution.Proportional(totalAmount, weights)
	if err != nil {
		// Zero total revenue never reaches here; a degenerate vector means no rows.
		return nil
	}

	result := make([]domain.PropertyTaxShare, len(shares))
	for i, share := range shares {
		row := byKey[share.ID]
		result[i] = domain.PropertyTaxShare{
			PropertyID:   row.PropertyID,
			PropertyName: row.PropertyName,
			Revenue:      row.Revenue,
			TaxAmount:    share.Amount,
		}
	}
	return result
}
