package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/imovelbooks/imovel_books_app/internal/models"
)

// ToModelTaxProjection converts a domain TaxProjection to a model TaxProjection. The
// property distribution is serialized to JSON for the JSONB column; a failure here is a
// programming error and is returned to the caller.
func ToModelTaxProjection(d domain.TaxProjection) (models.TaxProjection, error) {
	var dist []byte
	if len(d.PropertyDistribution) > 0 {
		var err error
		dist, err = json.Marshal(d.PropertyDistribution)
		if err != nil {
			return models.TaxProjection{}, fmt.Errorf("failed to marshal property distribution for projection %s: %w", d.ProjectionID, err)
		}
	}
	return models.TaxProjection{
		ProjectionID:         d.ProjectionID,
		UserID:               d.UserID,
		TaxType:              string(d.TaxType),
		ReferenceMonth:       string(d.ReferenceMonth),
		DueDate:              d.DueDate,
		BaseAmount:           d.BaseAmount.Decimal(),
		TaxAmount:            d.TaxAmount.Decimal(),
		AdditionalAmount:     d.AdditionalAmount.Decimal(),
		TotalAmount:          d.TotalAmount.Decimal(),
		Status:               string(d.Status),
		IsInstallment:        d.IsInstallment,
		InstallmentNumber:    d.InstallmentNumber,
		ParentProjectionID:   d.ParentProjectionID,
		ManualOverride:       d.ManualOverride,
		OriginalAmount:       moneyToDecimalPtr(d.OriginalAmount),
		Notes:                d.Notes,
		PropertyDistribution: dist,
		TransactionID:        d.TransactionID,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainTaxProjection converts a model TaxProjection to a domain TaxProjection
func ToDomainTaxProjection(m models.TaxProjection) (domain.TaxProjection, error) {
	var dist []domain.PropertyTaxShare
	if len(m.PropertyDistribution) > 0 {
		if err := json.Unmarshal(m.PropertyDistribution, &dist); err != nil {
			return domain.TaxProjection{}, fmt.Errorf("failed to unmarshal property distribution for projection %s: %w", m.ProjectionID, err)
		}
	}
	return domain.TaxProjection{
		ProjectionID:         m.ProjectionID,
		UserID:               m.UserID,
		TaxType:              domain.TaxType(m.TaxType),
		ReferenceMonth:       domain.ReferenceMonth(m.ReferenceMonth),
		DueDate:              m.DueDate,
		BaseAmount:           domain.NewMoneyFromDecimal(m.BaseAmount),
		TaxAmount:            domain.NewMoneyFromDecimal(m.TaxAmount),
		AdditionalAmount:     domain.NewMoneyFromDecimal(m.AdditionalAmount),
		TotalAmount:          domain.NewMoneyFromDecimal(m.TotalAmount),
		Status:               domain.ProjectionStatus(m.Status),
		IsInstallment:        m.IsInstallment,
		InstallmentNumber:    m.InstallmentNumber,
		ParentProjectionID:   m.ParentProjectionID,
		ManualOverride:       m.ManualOverride,
		OriginalAmount:       decimalPtrToMoney(m.OriginalAmount),
		Notes:                m.Notes,
		PropertyDistribution: dist,
		TransactionID:        m.TransactionID,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainTaxProjectionSlice converts a slice of model TaxProjections to a slice of domain TaxProjections
func ToDomainTaxProjectionSlice(ms []models.TaxProjection) ([]domain.TaxProjection, error) {
	ds := make([]domain.TaxProjection, len(ms))
	for i, m := range ms {
		d, err := ToDomainTaxProjection(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
