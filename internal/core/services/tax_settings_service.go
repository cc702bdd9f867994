package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portsrepo "github.com/imovelbooks/imovel_books_app/internal/core/ports/repositories"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
)

// taxSettingsService manages the versioned tax rule set. Versions are append-only:
// an update closes the open row and inserts a new one, never mutating history, so any
// past computation stays reproducible against the settings that produced it.
type taxSettingsService struct {
	settingRepo portsrepo.TaxSettingRepositoryFacade
}

// NewTaxSettingsService creates a new TaxSettingsService.
func NewTaxSettingsService(settingRepo portsrepo.TaxSettingRepositoryFacade) portssvc.TaxSettingsSvcFacade {
	return &taxSettingsService{settingRepo: settingRepo}
}

var _ portssvc.TaxSettingsSvcFacade = (*taxSettingsService)(nil)

// GetActiveSettings returns the setting versions active at referenceDate.
func (s *taxSettingsService) GetActiveSettings(ctx context.Context, userID string, taxType *domain.TaxType, referenceDate time.Time) ([]domain.TaxSetting, error) {
	settings, err := s.settingRepo.FindActiveSettings(ctx, userID, taxType, referenceDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active tax settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings closes the open version for taxType and inserts a new one effective
// today. Concurrent updates for the same tax type are expected to be serialized by the
// persistence layer.
func (s *taxSettingsService) UpdateSettings(ctx context.Context, userID string, taxType domain.TaxType, req dto.UpdateTaxSettingRequest) (*domain.TaxSetting, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateSettingRequest(req); err != nil {
		return nil, err
	}

	open, err := s.settingRepo.FindOpenSetting(ctx, userID, taxType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open setting for tax type %s, run initialization first", apperrors.ErrConflict, taxType)
		}
		return nil, fmt.Errorf("failed to find open setting for %s: %w", taxType, err)
	}

	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	next := *open
	next.SettingID = uuid.NewString()
	next.Rate = req.Rate
	if req.BaseRate != nil {
		next.BaseRate = req.BaseRate
	}
	if req.AdditionalRate != nil {
		next.AdditionalRate = req.AdditionalRate
	}
	if req.AdditionalThreshold != nil {
		next.AdditionalThreshold = req.AdditionalThreshold
	}
	if req.PaymentFrequency != nil {
		next.PaymentFrequency = domain.PaymentFrequency(*req.PaymentFrequency)
	}
	if req.DueDay != nil {
		next.DueDay = *req.DueDay
	}
	if req.InstallmentAllowed != nil {
		next.InstallmentAllowed = *req.InstallmentAllowed
	}
	if req.InstallmentThreshold != nil {
		next.InstallmentThreshold = req.InstallmentThreshold
	}
	if req.InstallmentCount != nil {
		next.InstallmentCount = req.InstallmentCount
	}
	next.EffectiveDate = today
	next.EndDate = nil
	next.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	// Close and insert rotate in one unit so a failed insert never leaves the tax type
	// without an open version.
	if err := s.settingRepo.RotateSetting(ctx, open.SettingID, today, next); err != nil {
		return nil, fmt.Errorf("failed to rotate setting %s: %w", open.SettingID, err)
	}

	logger.Info("Tax setting updated",
		slog.String("tax_type", string(taxType)),
		slog.String("setting_id", next.SettingID),
		slog.String("rate", next.Rate.String()),
	)
	return &next, nil
}

// InitializeDefaults installs the default presumed-profit rule set for every tax type
// missing an open version. Invoked once by the owning provisioning workflow, not
// defensively from calculation paths.
func (s *taxSettingsService) InitializeDefaults(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	open, err := s.settingRepo.FindOpenSettings(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list open settings: %w", err)
	}

	present := make(map[domain.TaxType]bool, len(open))
	for _, setting := range open {
		present[setting.TaxType] = true
	}

	now := time.Now().UTC()
	var missing []domain.TaxSetting
	for _, setting := range defaultTaxSettings(userID, now) {
		if !present[setting.TaxType] {
			missing = append(missing, setting)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if err := s.settingRepo.SaveSettings(ctx, missing); err != nil {
		return fmt.Errorf("failed to save default tax settings: %w", err)
	}

	logger.Info("Default tax settings initialized", slog.Int("count", len(missing)))
	return nil
}

func validateSettingRequest(req dto.UpdateTaxSettingRequest) error {
	if req.Rate.IsNegative() || req.Rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: rate must be between 0 and 100", apperrors.ErrValidation)
	}
	if req.BaseRate != nil && (req.BaseRate.IsNegative() || req.BaseRate.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("%w: base rate must be between 0 and 100", apperrors.ErrValidation)
	}
	if req.AdditionalRate != nil && (req.AdditionalRate.IsNegative() || req.AdditionalRate.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("%w: additional rate must be between 0 and 100", apperrors.ErrValidation)
	}
	if req.InstallmentThreshold != nil && req.InstallmentThreshold.IsNegative() {
		return fmt.Errorf("%w: installment threshold must not be negative", apperrors.ErrValidation)
	}
	return nil
}

// defaultTaxSettings is the presumed-profit regime for rental revenue: flat consumption
// taxes (PIS/COFINS) plus presumed-profit CSLL and IRPJ with the IRPJ bracket surtax.
// CSLL and IRPJ default to the monthly estimated-payment frequency; switching a setting
// to quarterly moves its computation to quarter-end months.
func defaultTaxSettings(userID string, now time.Time) []domain.TaxSetting {
	effective := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	return []domain.TaxSetting{
		{
			SettingID:        uuid.NewString(),
			UserID:           userID,
			TaxType:          domain.TaxPIS,
			Rate:             decimal.RequireFromString("1.65"),
			PaymentFrequency: domain.Monthly,
			DueDay:           25,
			EffectiveDate:    effective,
			AuditFields:      audit,
		},
		{
			SettingID:        uuid.NewString(),
			UserID:           userID,
			TaxType:          domain.TaxCOFINS,
			Rate:             decimal.RequireFromString("7.6"),
			PaymentFrequency: domain.Monthly,
			DueDay:           25,
			EffectiveDate:    effective,
			AuditFields:      audit,
		},
		{
			SettingID:            uuid.NewString(),
			UserID:               userID,
			TaxType:              domain.TaxCSLL,
			Rate:                 decimal.RequireFromString("9"),
			BaseRate:             decimalPtr(decimal.RequireFromString("32")),
			PaymentFrequency:     domain.Monthly,
			DueDay:               31,
			InstallmentAllowed:   true,
			InstallmentThreshold: moneyPtr(domain.MustMoney("2000.00")),
			InstallmentCount:     intPtr(3),
			EffectiveDate:        effective,
			AuditFields:          audit,
		},
		{
			SettingID:            uuid.NewString(),
			UserID:               userID,
			TaxType:              domain.TaxIRPJ,
			Rate:                 decimal.RequireFromString("15"),
			BaseRate:             decimalPtr(decimal.RequireFromString("32")),
			AdditionalRate:       decimalPtr(decimal.RequireFromString("10")),
			AdditionalThreshold:  moneyPtr(domain.MustMoney("20000.00")),
			PaymentFrequency:     domain.Monthly,
			DueDay:               31,
			InstallmentAllowed:   true,
			InstallmentThreshold: moneyPtr(domain.MustMoney("2000.00")),
			InstallmentCount:     intPtr(3),
			EffectiveDate:        effective,
			AuditFields:          audit,
		},
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
func moneyPtr(m domain.Money) *domain.Money         { return &m }
func intPtr(i int) *int                             { return &i }
