package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database row for a ledger record. Composite parents carry
// is_composite_parent and no property; their children reference them through
// parent_transaction_id with ON DELETE CASCADE.
type Transaction struct {
	TransactionID       string          `json:"transactionID"`
	UserID              string          `json:"userID"`
	Type                string          `json:"type"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount"`
	Date                time.Time       `json:"date"`
	Category            string          `json:"category"`
	CurrencyCode        string          `json:"currencyCode"`
	PropertyID          *string         `json:"propertyID"`
	IsCompositeParent   bool            `json:"isCompositeParent"`
	ParentTransactionID *string         `json:"parentTransactionID"`
	AuditFields
}
