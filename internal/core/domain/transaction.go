package domain

import "time"

// TransactionType indicates whether a ledger transaction records revenue or an expense.
type TransactionType string

const (
	Revenue TransactionType = "REVENUE"
	Expense TransactionType = "EXPENSE"
)

// Expense categories used by the engine when booking transactions.
const (
	CategoryTax        = "TAX"
	CategoryManagement = "MANAGEMENT"
	CategoryMauricio   = "MAURICIO"
)

// Transaction is a single ledger record. A composite payment is a two-level aggregate:
// one parent row (IsCompositeParent, no property, holds the total) and N child rows,
// one per property, each referencing the parent. Children never exist without a parent,
// sum(children) equals the parent amount exactly, and deleting a parent removes all of
// its children.
type Transaction struct {
	TransactionID       string          `json:"transactionID"` // Primary Key (UUID)
	UserID              string          `json:"userID"`
	Type                TransactionType `json:"type"`
	Description         string          `json:"description"`
	Amount              Money           `json:"amount"`
	Date                time.Time       `json:"date"`
	Category            string          `json:"category"`
	CurrencyCode        string          `json:"currencyCode"`         // per-property currency tag
	PropertyID          *string         `json:"propertyID,omitempty"` // nil for company-level rows and composite parents
	IsCompositeParent   bool            `json:"isCompositeParent"`
	ParentTransactionID *string         `json:"parentTransactionID,omitempty"`
	AuditFields
}

// CompositeTransaction is the parent/child aggregate persisted as one atomic unit.
type CompositeTransaction struct {
	Parent   Transaction
	Children []Transaction
}
