package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxProjection is the database row for a computed tax liability. The per-property
// distribution is stored as a JSONB document since it is informational and always read
// whole.
type TaxProjection struct {
	ProjectionID         string           `json:"projectionID"`
	UserID               string           `json:"userID"`
	TaxType              string           `json:"taxType"`
	ReferenceMonth       string           `json:"referenceMonth"` // "YYYY-MM"
	DueDate              time.Time        `json:"dueDate"`
	BaseAmount           decimal.Decimal  `json:"baseAmount"`
	TaxAmount            decimal.Decimal  `json:"taxAmount"`
	AdditionalAmount     decimal.Decimal  `json:"additionalAmount"`
	TotalAmount          decimal.Decimal  `json:"totalAmount"`
	Status               string           `json:"status"`
	IsInstallment        bool             `json:"isInstallment"`
	InstallmentNumber    *int             `json:"installmentNumber"`
	ParentProjectionID   *string          `json:"parentProjectionID"`
	ManualOverride       bool             `json:"manualOverride"`
	OriginalAmount       *decimal.Decimal `json:"originalAmount"`
	Notes                string           `json:"notes"`
	PropertyDistribution []byte           `json:"propertyDistribution"` // JSONB
	TransactionID        *string          `json:"transactionID"`
	AuditFields
}
