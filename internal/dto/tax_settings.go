package dto

import (
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateTaxSettingRequest carries new values for a tax setting version. Rates are
// percentages; amounts are decimal strings.
type UpdateTaxSettingRequest struct {
	Rate                 decimal.Decimal  `json:"rate" binding:"required"`
	BaseRate             *decimal.Decimal `json:"baseRate,omitempty"`
	AdditionalRate       *decimal.Decimal `json:"additionalRate,omitempty"`
	AdditionalThreshold  *domain.Money    `json:"additionalThreshold,omitempty"`
	PaymentFrequency     *string          `json:"paymentFrequency,omitempty" binding:"omitempty,oneof=MONTHLY QUARTERLY"`
	DueDay               *int             `json:"dueDay,omitempty" binding:"omitempty,min=1,max=31"`
	InstallmentAllowed   *bool            `json:"installmentAllowed,omitempty"`
	InstallmentThreshold *domain.Money    `json:"installmentThreshold,omitempty"`
	InstallmentCount     *int             `json:"installmentCount,omitempty" binding:"omitempty,min=2,max=60"`
}

// TaxSettingResponse is the external representation of one setting version.
type TaxSettingResponse struct {
	SettingID            string           `json:"settingID"`
	TaxType              domain.TaxType   `json:"taxType"`
	Rate                 decimal.Decimal  `json:"rate"`
	BaseRate             *decimal.Decimal `json:"baseRate,omitempty"`
	AdditionalRate       *decimal.Decimal `json:"additionalRate,omitempty"`
	AdditionalThreshold  *domain.Money    `json:"additionalThreshold,omitempty"`
	PaymentFrequency     string           `json:"paymentFrequency"`
	DueDay               int              `json:"dueDay"`
	InstallmentAllowed   bool             `json:"installmentAllowed"`
	InstallmentThreshold *domain.Money    `json:"installmentThreshold,omitempty"`
	InstallmentCount     *int             `json:"installmentCount,omitempty"`
	EffectiveDate        time.Time        `json:"effectiveDate"`
	EndDate              *time.Time       `json:"endDate,omitempty"`
}

// ToTaxSettingResponse converts a domain.TaxSetting to its response DTO.
func ToTaxSettingResponse(s *domain.TaxSetting) TaxSettingResponse {
	return TaxSettingResponse{
		SettingID:            s.SettingID,
		TaxType:              s.TaxType,
		Rate:                 s.Rate,
		BaseRate:             s.BaseRate,
		AdditionalRate:       s.AdditionalRate,
		AdditionalThreshold:  s.AdditionalThreshold,
		PaymentFrequency:     string(s.PaymentFrequency),
		DueDay:               s.DueDay,
		InstallmentAllowed:   s.InstallmentAllowed,
		InstallmentThreshold: s.InstallmentThreshold,
		InstallmentCount:     s.InstallmentCount,
		EffectiveDate:        s.EffectiveDate,
		EndDate:              s.EndDate,
	}
}

// ToTaxSettingResponses converts a slice of settings to response DTOs.
func ToTaxSettingResponses(settings []domain.TaxSetting) []TaxSettingResponse {
	responses := make([]TaxSettingResponse, len(settings))
	for i := range settings {
		responses[i] = ToTaxSettingResponse(&settings[i])
	}
	return responses
}
