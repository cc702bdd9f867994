package mapping

import (
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/imovelbooks/imovel_books_app/internal/models"
)

// ToModelProperty converts a domain Property to a model Property
func ToModelProperty(d domain.Property) models.Property {
	return models.Property{
		PropertyID:   d.PropertyID,
		UserID:       d.UserID,
		Name:         d.Name,
		CurrencyCode: d.CurrencyCode,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProperty converts a model Property to a domain Property
func ToDomainProperty(m models.Property) domain.Property {
	return domain.Property{
		PropertyID:   m.PropertyID,
		UserID:       m.UserID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPropertySlice converts a slice of model Properties to a slice of domain Properties
func ToDomainPropertySlice(ms []models.Property) []domain.Property {
	ds := make([]domain.Property, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProperty(m)
	}
	return ds
}
