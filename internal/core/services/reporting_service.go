package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
)

// reportingService assembles projection data for the reporting surface. Read-only.
type reportingService struct {
	calculator     portssvc.TaxCalculatorSvcFacade
	settingsSvc    portssvc.TaxSettingsSvcFacade
	projectionRepo portsrepo.TaxProjectionReader
	revenueRepo    portsrepo.RevenueReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(
	calculator portssvc.TaxCalculatorSvcFacade,
	settingsSvc portssvc.TaxSettingsSvcFacade,
	projectionRepo portsrepo.TaxProjectionReader,
	revenueRepo portsrepo.RevenueReader,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		calculator:     calculator,
		settingsSvc:    settingsSvc,
		projectionRepo: projectionRepo,
		revenueRepo:    revenueRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GenerateTaxPreview runs the calculator for the month without persisting anything.
func (s *reportingService) GenerateTaxPreview(ctx context.Context, userID string, month domain.ReferenceMonth, propertyIDs []string) (*dto.TaxPreviewResponse, error) {
	projections, err := s.calculator.CalculateForMonth(ctx, userID, month, propertyIDs)
	if err != nil {
		return nil, err
	}

	// The month's revenue is fetched directly; a quarterly projection's base covers the
	// whole quarter and must not leak into the monthly figure.
	rows, err := s.revenueRepo.GetRevenueByPropertyAndPeriod(ctx, userID, month.Time(), month.End(), propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue aggregate: %w", err)
	}
	totalRevenue := domain.TotalRevenue(rows)

	totalTax := domain.ZeroMoney()
	for _, projection := range projections {
		totalTax = totalTax.Add(projection.TotalAmount)
	}

	return &dto.TaxPreviewResponse{
		ReferenceMonth: month.String(),
		TotalRevenue:   totalRevenue,
		TotalTax:       totalTax,
		Projections:    dto.ToProjectionResponses(projections),
	}, nil
}

// CalculatePisCofins computes the monthly consumption taxes directly from the month's
// revenue and the active flat rates.
func (s *reportingService) CalculatePisCofins(ctx context.Context, userID string, month domain.ReferenceMonth) (*dto.PisCofinsResponse, error) {
	rows, err := s.revenueRepo.GetRevenueByPropertyAndPeriod(ctx, userID, month.Time(), month.End(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue aggregate: %w", err)
	}
	totalRevenue := domain.TotalRevenue(rows)

	settings, err := s.settingsSvc.GetActiveSettings(ctx, userID, nil, month.Time())
	if err != nil {
		return nil, err
	}

	pis := domain.ZeroMoney()
	cofins := domain.ZeroMoney()
	seen := make(map[domain.TaxType]bool)
	for _, setting := range settings {
		if seen[setting.TaxType] {
			continue
		}
		seen[setting.TaxType] = true
		switch setting.TaxType {
		case domain.TaxPIS:
			pis = totalRevenue.Percentage(setting.Rate)
		case domain.TaxCOFINS:
			cofins = totalRevenue.Percentage(setting.Rate)
		}
	}

	return &dto.PisCofinsResponse{
		ReferenceMonth: month.String(),
		TotalRevenue:   totalRevenue,
		PisAmount:      pis,
		CofinsAmount:   cofins,
		TotalAmount:    pis.Add(cofins),
	}, nil
}

// GetTaxSummary aggregates the year's projections per tax type. Parents of installment
// families are excluded from the sums: the payable amounts are their children.
func (s *reportingService) GetTaxSummary(ctx context.Context, userID string, year int) (*dto.TaxSummaryResponse, error) {
	projections, err := s.projectionRepo.ListProjections(ctx, userID, portsrepo.ProjectionFilter{Year: &year})
	if err != nil {
		return nil, fmt.Errorf("failed to list projections for %d: %w", year, err)
	}
	payable := excludeInstallmentParents(projections)

	summaries := make(map[domain.TaxType]*dto.TaxTypeSummary)
	grandTotal := domain.ZeroMoney()
	for _, projection := range payable {
		summary, ok := summaries[projection.TaxType]
		if !ok {
			summary = &dto.TaxTypeSummary{
				TaxType:         projection.TaxType,
				ProjectedAmount: domain.ZeroMoney(),
				ConfirmedAmount: domain.ZeroMoney(),
				TotalAmount:     domain.ZeroMoney(),
			}
			summaries[projection.TaxType] = summary
		}
		if projection.IsConfirmed() {
			summary.ConfirmedCount++
			summary.ConfirmedAmount = summary.ConfirmedAmount.Add(projection.TotalAmount)
		} else {
			summary.ProjectedCount++
			summary.ProjectedAmount = summary.ProjectedAmount.Add(projection.TotalAmount)
		}
		summary.TotalAmount = summary.TotalAmount.Add(projection.TotalAmount)
		grandTotal = grandTotal.Add(projection.TotalAmount)
	}

	byTaxType := make([]dto.TaxTypeSummary, 0, len(summaries))
	for _, taxType := range domain.KnownTaxTypes {
		if summary, ok := summaries[taxType]; ok {
			byTaxType = append(byTaxType, *summary)
		}
	}

	return &dto.TaxSummaryResponse{
		Year:       year,
		ByTaxType:  byTaxType,
		GrandTotal: grandTotal,
	}, nil
}

// GetMonthlyComparison returns the year's per-month revenue versus projected tax
// burden, with the effective rate as a percentage.
func (s *reportingService) GetMonthlyComparison(ctx context.Context, userID string, year int) (*dto.MonthlyComparisonResponse, error) {
	projections, err := s.projectionRepo.ListProjections(ctx, userID, portsrepo.ProjectionFilter{Year: &year})
	if err != nil {
		return nil, fmt.Errorf("failed to list projections for %d: %w", year, err)
	}
	payable := excludeInstallmentParents(projections)

	taxByMonth := make(map[domain.ReferenceMonth]domain.Money)
	for _, projection := range payable {
		current, ok := taxByMonth[projection.ReferenceMonth]
		if !ok {
			current = domain.ZeroMoney()
		}
		taxByMonth[projection.ReferenceMonth] = current.Add(projection.TotalAmount)
	}

	months := make([]dto.MonthlyComparisonRow, 0, 12)
	for m := 1; m <= 12; m++ {
		month, err := domain.ParseReferenceMonth(fmt.Sprintf("%04d-%02d", year, m))
		if err != nil {
			return nil, err
		}

		rows, err := s.revenueRepo.GetRevenueByPropertyAndPeriod(ctx, userID, month.Time(), month.End(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch revenue for %s: %w", month, err)
		}
		revenue := domain.TotalRevenue(rows)

		taxTotal, ok := taxByMonth[month]
		if !ok {
			taxTotal = domain.ZeroMoney()
		}

		effectiveRate := decimal.Zero
		if !revenue.IsZero() {
			effectiveRate = taxTotal.Decimal().Div(revenue.Decimal()).Mul(decimal.NewFromInt(100)).Round(2)
		}

		months = append(months, dto.MonthlyComparisonRow{
			ReferenceMonth: month.String(),
			Revenue:        revenue,
			TaxTotal:       taxTotal,
			EffectiveRate:  effectiveRate,
		})
	}

	return &dto.MonthlyComparisonResponse{Year: year, Months: months}, nil
}

// excludeInstallmentParents drops rows that exist only as audit parents of installment
// families.
func excludeInstallmentParents(projections []domain.TaxProjection) []domain.TaxProjection {
	parents := make(map[string]bool)
	for _, projection := range projections {
		if projection.ParentProjectionID != nil {
			parents[*projection.ParentProjectionID] = true
		}
	}
	result := make([]domain.TaxProjection, 0, len(projections))
	for _, projection := range projections {
		if parents[projection.ProjectionID] {
			continue
		}
		result = append(result, projection)
	}
	return result
}
