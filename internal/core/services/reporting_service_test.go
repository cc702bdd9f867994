package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockSettingRepo    *MockTaxSettingRepository
	mockProjectionRepo *MockTaxProjectionRepository
	mockRevenueRepo    *MockRevenueRepository
	service            portssvc.ReportingSvcFacade
	userID             string
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockSettingRepo = new(MockTaxSettingRepository)
	suite.mockProjectionRepo = new(MockTaxProjectionRepository)
	suite.mockRevenueRepo = new(MockRevenueRepository)

	settingsSvc := services.NewTaxSettingsService(suite.mockSettingRepo)
	calculator := services.NewTaxCalculatorService(settingsSvc, suite.mockRevenueRepo)
	suite.service = services.NewReportingService(calculator, settingsSvc, suite.mockProjectionRepo, suite.mockRevenueRepo)
	suite.userID = uuid.NewString()
}

func (suite *ReportingServiceTestSuite) TestGenerateTaxPreview_DoesNotPersist() {
	ctx := context.Background()
	month := domain.ReferenceMonth("2025-07")

	suite.mockSettingRepo.On("FindActiveSettings", ctx, suite.userID, (*domain.TaxType)(nil), month.Time()).
		Return(presumedProfitSettings(suite.userID), nil).Once()
	suite.mockRevenueRepo.On("GetRevenueByPropertyAndPeriod", ctx, suite.userID, month.Time(), month.End(), []string(nil)).
		Return([]domain.RevenueAggregate{revenueRow("prop-1", "Apartamento Centro", "10000.00")}, nil).Twice()

	preview, err := suite.service.GenerateTaxPreview(ctx, suite.userID, month, nil)

	suite.Require().NoError(err)
	suite.Equal("2025-07", preview.ReferenceMonth)
	suite.Equal("10000.00", preview.TotalRevenue.String())
	// 165 + 760 + 288 + 480
	suite.Equal("1693.00", preview.TotalTax.String())
	suite.Len(preview.Projections, 4)
	suite.mockProjectionRepo.AssertNotCalled(suite.T(), "SaveProjections", mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGenerateTaxPreview_QuarterEndReportsMonthRevenue() {
	ctx := context.Background()
	month := domain.ReferenceMonth("2025-09")

	// PIS stays monthly; CSLL computes quarterly at quarter end over the quarter's
	// revenue. The preview's revenue figure is still the month's.
	settings := presumedProfitSettings(suite.userID)[:3]
	settings[2].PaymentFrequency = domain.Quarterly

	suite.mockSettingRepo.On("FindActiveSettings", ctx, suite.userID, (*domain.TaxType)(nil), month.Time()).
		Return(settings, nil).Once()
	suite.mockRevenueRepo.On("GetRevenueByPropertyAndPeriod", ctx, suite.userID, month.Time(), month.End(), []string(nil)).
		Return([]domain.RevenueAggregate{revenueRow("prop-1", "Apartamento Centro", "10000.00")}, nil).Twice()
	suite.mockRevenueRepo.On("GetRevenueByPropertyAndPeriod", ctx, suite.userID, month.QuarterStart(), month.End(), []string(nil)).
		Return([]domain.RevenueAggregate{revenueRow("prop-1", "Apartamento Centro", "30000.00")}, nil).Once()

	preview, err := suite.service.GenerateTaxPreview(ctx, suite.userID, month, nil)

	suite.Require().NoError(err)
	suite.Equal("10000.00", preview.TotalRevenue.String())
	// PIS 165 + COFINS 760 on the month, CSLL 9% of 32% of the quarter's 30000.
	suite.Equal("1789.00", preview.TotalTax.String())
	suite.Require().Len(preview.Projections, 3)
	suite.mockRevenueRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestCalculatePisCofins_FlatRatesOverRevenue() {
	ctx := context.Background()
	month := domain.ReferenceMonth("2025-07")

	suite.mockRevenueRepo.On("GetRevenueByPropertyAndPeriod", ctx, suite.userID, month.Time(), month.End(), []string(nil)).
		Return([]domain.RevenueAggregate{
			revenueRow("prop-1", "Apartamento Centro", "6000.00"),
			revenueRow("prop-2", "Casa Jardim", "4000.00"),
		}, nil).Once()
	suite.mockSettingRepo.On("FindActiveSettings", ctx, suite.userID, (*domain.TaxType)(nil), month.Time()).
		Return(presumedProfitSettings(suite.userID), nil).Once()

	report, err := suite.service.CalculatePisCofins(ctx, suite.userID, month)

	suite.Require().NoError(err)
	suite.Equal("10000.00", report.TotalRevenue.String())
	suite.Equal("165.00", report.PisAmount.String())
	suite.Equal("760.00", report.CofinsAmount.String())
	suite.Equal("925.00", report.TotalAmount.String())
}

func (suite *ReportingServiceTestSuite) TestGetTaxSummary_BucketsByStatusAndExcludesInstallmentParents() {
	ctx := context.Background()
	year := 2025

	confirmedPis := projectedRow(suite.userID, domain.TaxPIS, "2025-07", "165.00")
	confirmedPis.Status = domain.StatusConfirmed
	projectedPis := projectedRow(suite.userID, domain.TaxPIS, "2025-08", "180.00")

	// An installment family: the parent carries the audit total and must not be summed.
	parent := projectedRow(suite.userID, domain.TaxIRPJ, "2025-07", "9000.00")
	one, two, three := 1, 2, 3
	childA := projectedRow(suite.userID, domain.TaxIRPJ, "2025-07", "3000.00")
	childA.IsInstallment = true
	childA.InstallmentNumber = &one
	childA.ParentProjectionID = &parent.ProjectionID
	childB := projectedRow(suite.userID, domain.TaxIRPJ, "2025-07", "3030.00")
	childB.IsInstallment = true
	childB.InstallmentNumber = &two
	childB.ParentProjectionID = &parent.ProjectionID
	childC := projectedRow(suite.userID, domain.TaxIRPJ, "2025-07", "3030.00")
	childC.IsInstallment = true
	childC.InstallmentNumber = &three
	childC.ParentProjectionID = &parent.ProjectionID
	childC.Status = domain.StatusConfirmed

	suite.mockProjectionRepo.On("ListProjections", ctx, suite.userID, portsrepo.ProjectionFilter{Year: &year}).
		Return([]domain.TaxProjection{confirmedPis, projectedPis, parent, childA, childB, childC}, nil).Once()

	summary, err := suite.service.GetTaxSummary(ctx, suite.userID, year)

	suite.Require().NoError(err)
	suite.Equal(year, summary.Year)
	suite.Require().Len(summary.ByTaxType, 2)

	pis := summary.ByTaxType[0]
	suite.Equal(domain.TaxPIS, pis.TaxType)
	suite.Equal(1, pis.ProjectedCount)
	suite.Equal("180.00", pis.ProjectedAmount.String())
	suite.Equal(1, pis.ConfirmedCount)
	suite.Equal("165.00", pis.ConfirmedAmount.String())
	suite.Equal("345.00", pis.TotalAmount.String())

	irpj := summary.ByTaxType[1]
	suite.Equal(domain.TaxIRPJ, irpj.TaxType)
	suite.Equal(2, irpj.ProjectedCount)
	suite.Equal("6030.00", irpj.ProjectedAmount.String())
	suite.Equal(1, irpj.ConfirmedCount)
	suite.Equal("3030.00", irpj.ConfirmedAmount.String())
	suite.Equal("9060.00", irpj.TotalAmount.String())

	suite.Equal("9405.00", summary.GrandTotal.String())
}

func (suite *ReportingServiceTestSuite) TestGetMonthlyComparison_TwelveRowsWithEffectiveRate() {
	ctx := context.Background()
	year := 2025

	julyPis := projectedRow(suite.userID, domain.TaxPIS, "2025-07", "165.00")
	julyCofins := projectedRow(suite.userID, domain.TaxCOFINS, "2025-07", "760.00")

	suite.mockProjectionRepo.On("ListProjections", ctx, suite.userID, portsrepo.ProjectionFilter{Year: &year}).
		Return([]domain.TaxProjection{julyPis, julyCofins}, nil).Once()

	for m := 1; m <= 12; m++ {
		month := domain.ReferenceMonth(time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
		rows := []domain.RevenueAggregate{}
		if m == 7 {
			rows = append(rows, revenueRow("prop-1", "Apartamento Centro", "10000.00"))
		}
		suite.mockRevenueRepo.On("GetRevenueByPropertyAndPeriod", ctx, suite.userID, month.Time(), month.End(), []string(nil)).
			Return(rows, nil).Once()
	}

	report, err := suite.service.GetMonthlyComparison(ctx, suite.userID, year)

	suite.Require().NoError(err)
	suite.Require().Len(report.Months, 12)

	july := report.Months[6]
	suite.Equal("2025-07", july.ReferenceMonth)
	suite.Equal("10000.00", july.Revenue.String())
	suite.Equal("925.00", july.TaxTotal.String())
	// 925 / 10000 * 100
	suite.Equal("9.25", july.EffectiveRate.String())

	august := report.Months[7]
	suite.Equal("0.00", august.Revenue.String())
	suite.Equal("0.00", august.TaxTotal.String())
	suite.True(august.EffectiveRate.IsZero())
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
