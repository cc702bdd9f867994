package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/core/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
)

type TaxSettingsServiceTestSuite struct {
	suite.Suite
	mockRepo *MockTaxSettingRepository
	service  portssvc.TaxSettingsSvcFacade
	userID   string
}

func (suite *TaxSettingsServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTaxSettingRepository)
	suite.service = services.NewTaxSettingsService(suite.mockRepo)
	suite.userID = uuid.NewString()
}

func openSetting(userID string, taxType domain.TaxType, rate string) domain.TaxSetting {
	return domain.TaxSetting{
		SettingID:        uuid.NewString(),
		UserID:           userID,
		TaxType:          taxType,
		Rate:             decimal.RequireFromString(rate),
		PaymentFrequency: domain.Monthly,
		DueDay:           25,
		EffectiveDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *TaxSettingsServiceTestSuite) TestInitializeDefaults_InstallsAllFour() {
	ctx := context.Background()

	suite.mockRepo.On("FindOpenSettings", ctx, suite.userID).Return([]domain.TaxSetting{}, nil).Once()
	suite.mockRepo.On("SaveSettings", ctx, mock.MatchedBy(func(settings []domain.TaxSetting) bool {
		if len(settings) != 4 {
			return false
		}
		byType := make(map[domain.TaxType]domain.TaxSetting)
		for _, s := range settings {
			byType[s.TaxType] = s
		}
		pis, cofins := byType[domain.TaxPIS], byType[domain.TaxCOFINS]
		csll, irpj := byType[domain.TaxCSLL], byType[domain.TaxIRPJ]
		return pis.Rate.Equal(decimal.RequireFromString("1.65")) &&
			cofins.Rate.Equal(decimal.RequireFromString("7.6")) &&
			csll.BaseRate != nil && csll.BaseRate.Equal(decimal.RequireFromString("32")) &&
			irpj.AdditionalRate != nil && irpj.AdditionalRate.Equal(decimal.RequireFromString("10")) &&
			irpj.AdditionalThreshold != nil && irpj.AdditionalThreshold.Equal(domain.MustMoney("20000.00")) &&
			irpj.InstallmentAllowed && irpj.InstallmentCount != nil && *irpj.InstallmentCount == 3
	})).Return(nil).Once()

	err := suite.service.InitializeDefaults(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxSettingsServiceTestSuite) TestInitializeDefaults_IdempotentWhenAllPresent() {
	ctx := context.Background()
	existing := []domain.TaxSetting{
		openSetting(suite.userID, domain.TaxPIS, "1.65"),
		openSetting(suite.userID, domain.TaxCOFINS, "7.6"),
		openSetting(suite.userID, domain.TaxCSLL, "9"),
		openSetting(suite.userID, domain.TaxIRPJ, "15"),
	}

	suite.mockRepo.On("FindOpenSettings", ctx, suite.userID).Return(existing, nil).Once()

	err := suite.service.InitializeDefaults(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSettings", mock.Anything, mock.Anything)
}

func (suite *TaxSettingsServiceTestSuite) TestInitializeDefaults_FillsOnlyMissingTypes() {
	ctx := context.Background()
	existing := []domain.TaxSetting{
		openSetting(suite.userID, domain.TaxPIS, "1.65"),
		openSetting(suite.userID, domain.TaxCOFINS, "7.6"),
	}

	suite.mockRepo.On("FindOpenSettings", ctx, suite.userID).Return(existing, nil).Once()
	suite.mockRepo.On("SaveSettings", ctx, mock.MatchedBy(func(settings []domain.TaxSetting) bool {
		return len(settings) == 2 &&
			settings[0].TaxType == domain.TaxCSLL &&
			settings[1].TaxType == domain.TaxIRPJ
	})).Return(nil).Once()

	err := suite.service.InitializeDefaults(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxSettingsServiceTestSuite) TestUpdateSettings_ClosesOldAndInsertsNew() {
	ctx := context.Background()
	open := openSetting(suite.userID, domain.TaxPIS, "1.65")
	newRate := decimal.RequireFromString("2.00")

	suite.mockRepo.On("FindOpenSetting", ctx, suite.userID, domain.TaxPIS).Return(&open, nil).Once()
	suite.mockRepo.On("RotateSetting", ctx, open.SettingID, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(next domain.TaxSetting) bool {
		return next.SettingID != open.SettingID &&
			next.TaxType == domain.TaxPIS &&
			next.Rate.Equal(newRate) &&
			next.EndDate == nil
	})).Return(nil).Once()

	updated, err := suite.service.UpdateSettings(ctx, suite.userID, domain.TaxPIS, dto.UpdateTaxSettingRequest{Rate: newRate})

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.True(updated.Rate.Equal(newRate))
	suite.NotEqual(open.SettingID, updated.SettingID)
	// Untouched fields carry forward from the closed version.
	suite.Equal(open.DueDay, updated.DueDay)
	suite.Equal(open.PaymentFrequency, updated.PaymentFrequency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxSettingsServiceTestSuite) TestUpdateSettings_SwitchToQuarterly() {
	ctx := context.Background()
	open := openSetting(suite.userID, domain.TaxCSLL, "9")
	quarterly := string(domain.Quarterly)

	suite.mockRepo.On("FindOpenSetting", ctx, suite.userID, domain.TaxCSLL).Return(&open, nil).Once()
	suite.mockRepo.On("RotateSetting", ctx, open.SettingID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.TaxSetting")).Return(nil).Once()

	updated, err := suite.service.UpdateSettings(ctx, suite.userID, domain.TaxCSLL, dto.UpdateTaxSettingRequest{
		Rate:             open.Rate,
		PaymentFrequency: &quarterly,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.Quarterly, updated.PaymentFrequency)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxSettingsServiceTestSuite) TestUpdateSettings_SingleRotationWrite() {
	ctx := context.Background()
	open := openSetting(suite.userID, domain.TaxPIS, "1.65")

	// Close and insert go through one repository call; a failed rotation leaves the
	// open version untouched and no half-applied writes behind.
	suite.mockRepo.On("FindOpenSetting", ctx, suite.userID, domain.TaxPIS).Return(&open, nil).Once()
	suite.mockRepo.On("RotateSetting", ctx, open.SettingID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("domain.TaxSetting")).
		Return(apperrors.ErrDuplicate).Once()

	updated, err := suite.service.UpdateSettings(ctx, suite.userID, domain.TaxPIS, dto.UpdateTaxSettingRequest{
		Rate: decimal.RequireFromString("2.00"),
	})

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSettings", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TaxSettingsServiceTestSuite) TestUpdateSettings_ConflictWithoutOpenVersion() {
	ctx := context.Background()

	suite.mockRepo.On("FindOpenSetting", ctx, suite.userID, domain.TaxIRPJ).Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateSettings(ctx, suite.userID, domain.TaxIRPJ, dto.UpdateTaxSettingRequest{
		Rate: decimal.RequireFromString("15"),
	})

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveSettings", mock.Anything, mock.Anything)
}

func (suite *TaxSettingsServiceTestSuite) TestUpdateSettings_RejectsOutOfRangeRate() {
	ctx := context.Background()

	for _, rate := range []string{"-1", "100.01"} {
		updated, err := suite.service.UpdateSettings(ctx, suite.userID, domain.TaxPIS, dto.UpdateTaxSettingRequest{
			Rate: decimal.RequireFromString(rate),
		})
		suite.Require().Error(err)
		suite.Nil(updated)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "FindOpenSetting", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaxSettingsServiceTestSuite) TestGetActiveSettings_PassesThrough() {
	ctx := context.Background()
	referenceDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	expected := []domain.TaxSetting{openSetting(suite.userID, domain.TaxPIS, "1.65")}

	suite.mockRepo.On("FindActiveSettings", ctx, suite.userID, (*domain.TaxType)(nil), referenceDate).Return(expected, nil).Once()

	settings, err := suite.service.GetActiveSettings(ctx, suite.userID, nil, referenceDate)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), expected, settings)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestTaxSettingsService(t *testing.T) {
	suite.Run(t, new(TaxSettingsServiceTestSuite))
}
