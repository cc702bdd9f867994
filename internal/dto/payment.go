package dto

import (
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDistributedPaymentRequest books one expense total split across properties.
// TotalAmount is raw user input: both "1.234,56" and "1234.56" are accepted.
// RevenueWeights, when present and non-zero, selects proportional distribution;
// otherwise the split is equal.
type CreateDistributedPaymentRequest struct {
	TaxType        string                     `json:"taxType" binding:"omitempty,oneof=PIS COFINS CSLL IRPJ"`
	TotalAmount    string                     `json:"totalAmount" binding:"required"`
	Description    string                     `json:"description"`
	Date           time.Time                  `json:"date" binding:"required"`
	PropertyIDs    []string                   `json:"propertyIDs" binding:"required"`
	RevenueWeights map[string]decimal.Decimal `json:"revenueWeights,omitempty"`
}

// CreateExpenseRequest books a named expense variant (management fee, Mauricio)
// split equally across properties by default.
type CreateExpenseRequest struct {
	TotalAmount string    `json:"totalAmount" binding:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" binding:"required"`
	PropertyIDs []string  `json:"propertyIDs" binding:"required"`
}

// TransactionResponse is the external representation of a ledger transaction.
type TransactionResponse struct {
	TransactionID       string       `json:"transactionID"`
	Type                string       `json:"type"`
	Description         string       `json:"description"`
	Amount              domain.Money `json:"amount"`
	Date                time.Time    `json:"date"`
	Category            string       `json:"category"`
	PropertyID          *string      `json:"propertyID,omitempty"`
	IsCompositeParent   bool         `json:"isCompositeParent"`
	ParentTransactionID *string      `json:"parentTransactionID,omitempty"`
}

// CompositeTransactionResponse returns a created parent/child pair.
type CompositeTransactionResponse struct {
	Parent   TransactionResponse   `json:"parent"`
	Children []TransactionResponse `json:"children"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       t.TransactionID,
		Type:                string(t.Type),
		Description:         t.Description,
		Amount:              t.Amount,
		Date:                t.Date,
		Category:            t.Category,
		PropertyID:          t.PropertyID,
		IsCompositeParent:   t.IsCompositeParent,
		ParentTransactionID: t.ParentTransactionID,
	}
}

// ToCompositeTransactionResponse converts a composite aggregate to its response DTO.
func ToCompositeTransactionResponse(c *domain.CompositeTransaction) CompositeTransactionResponse {
	children := make([]TransactionResponse, len(c.Children))
	for i := range c.Children {
		children[i] = ToTransactionResponse(&c.Children[i])
	}
	return CompositeTransactionResponse{
		Parent:   ToTransactionResponse(&c.Parent),
		Children: children,
	}
}
