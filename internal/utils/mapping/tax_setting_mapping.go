package mapping

import (
	"github.com/shopspring/decimal"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/imovelbooks/imovel_books_app/internal/models"
)

// ToModelTaxSetting converts a domain TaxSetting to a model TaxSetting
func ToModelTaxSetting(d domain.TaxSetting) models.TaxSetting {
	return models.TaxSetting{
		SettingID:            d.SettingID,
		UserID:               d.UserID,
		TaxType:              string(d.TaxType),
		Rate:                 d.Rate,
		BaseRate:             d.BaseRate,
		AdditionalRate:       d.AdditionalRate,
		AdditionalThreshold:  moneyToDecimalPtr(d.AdditionalThreshold),
		PaymentFrequency:     string(d.PaymentFrequency),
		DueDay:               d.DueDay,
		InstallmentAllowed:   d.InstallmentAllowed,
		InstallmentThreshold: moneyToDecimalPtr(d.InstallmentThreshold),
		InstallmentCount:     d.InstallmentCount,
		EffectiveDate:        d.EffectiveDate,
		EndDate:              d.EndDate,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTaxSetting converts a model TaxSetting to a domain TaxSetting
func ToDomainTaxSetting(m models.TaxSetting) domain.TaxSetting {
	return domain.TaxSetting{
		SettingID:            m.SettingID,
		UserID:               m.UserID,
		TaxType:              domain.TaxType(m.TaxType),
		Rate:                 m.Rate,
		BaseRate:             m.BaseRate,
		AdditionalRate:       m.AdditionalRate,
		AdditionalThreshold:  decimalPtrToMoney(m.AdditionalThreshold),
		PaymentFrequency:     domain.PaymentFrequency(m.PaymentFrequency),
		DueDay:               m.DueDay,
		InstallmentAllowed:   m.InstallmentAllowed,
		InstallmentThreshold: decimalPtrToMoney(m.InstallmentThreshold),
		InstallmentCount:     m.InstallmentCount,
		EffectiveDate:        m.EffectiveDate,
		EndDate:              m.EndDate,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaxSettingSlice converts a slice of model TaxSettings to a slice of domain TaxSettings
func ToDomainTaxSettingSlice(ms []models.TaxSetting) []domain.TaxSetting {
	ds := make([]domain.TaxSetting, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTaxSetting(m)
	}
	return ds
}

func moneyToDecimalPtr(m *domain.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Decimal()
	return &d
}

func decimalPtrToMoney(d *decimal.Decimal) *domain.Money {
	if d == nil {
		return nil
	}
	m := domain.NewMoneyFromDecimal(*d)
	return &m
}
