package mapping

import (
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/imovelbooks/imovel_books_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:       d.TransactionID,
		UserID:              d.UserID,
		Type:                string(d.Type),
		Description:         d.Description,
		Amount:              d.Amount.Decimal(),
		Date:                d.Date,
		Category:            d.Category,
		CurrencyCode:        d.CurrencyCode,
		PropertyID:          d.PropertyID,
		IsCompositeParent:   d.IsCompositeParent,
		ParentTransactionID: d.ParentTransactionID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:       m.TransactionID,
		UserID:              m.UserID,
		Type:                domain.TransactionType(m.Type),
		Description:         m.Description,
		Amount:              domain.NewMoneyFromDecimal(m.Amount),
		Date:                m.Date,
		Category:            m.Category,
		CurrencyCode:        m.CurrencyCode,
		PropertyID:          m.PropertyID,
		IsCompositeParent:   m.IsCompositeParent,
		ParentTransactionID: m.ParentTransactionID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
