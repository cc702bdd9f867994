package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxType identifies a tax levied on rental revenue.
type TaxType string

const (
	TaxPIS    TaxType = "PIS"
	TaxCOFINS TaxType = "COFINS"
	TaxCSLL   TaxType = "CSLL"
	TaxIRPJ   TaxType = "IRPJ"
)

// KnownTaxTypes lists every tax type the engine computes, in reporting order.
var KnownTaxTypes = []TaxType{TaxPIS, TaxCOFINS, TaxCSLL, TaxIRPJ}

// PaymentFrequency indicates how often a tax falls due.
type PaymentFrequency string

const (
	Monthly   PaymentFrequency = "MONTHLY"
	Quarterly PaymentFrequency = "QUARTERLY"
)

// TaxSetting is one version of the configuration for a tax type. Settings form an
// append-only temporal sequence per (user, tax type): updating never mutates a row in
// place, it closes the open version (EndDate set) and inserts a new one. For any point
// in time at most one version's [EffectiveDate, EndDate) interval contains it, which
// keeps historical computations reproducible.
type TaxSetting struct {
	SettingID            string           `json:"settingID"` // Primary Key (UUID)
	UserID               string           `json:"userID"`
	TaxType              TaxType          `json:"taxType"`
	Rate                 decimal.Decimal  `json:"rate"`                          // percent applied to the tax base
	BaseRate             *decimal.Decimal `json:"baseRate,omitempty"`            // presumed-profit percent of revenue; nil for flat taxes
	AdditionalRate       *decimal.Decimal `json:"additionalRate,omitempty"`      // bracket surtax percent (IRPJ)
	AdditionalThreshold  *Money           `json:"additionalThreshold,omitempty"` // revenue above which the surtax applies
	PaymentFrequency     PaymentFrequency `json:"paymentFrequency"`
	DueDay               int              `json:"dueDay"` // day of the following month, clamped to month length
	InstallmentAllowed   bool             `json:"installmentAllowed"`
	InstallmentThreshold *Money           `json:"installmentThreshold,omitempty"`
	InstallmentCount     *int             `json:"installmentCount,omitempty"`
	EffectiveDate        time.Time        `json:"effectiveDate"`
	EndDate              *time.Time       `json:"endDate,omitempty"` // nil marks the open ("current") version
	AuditFields
}

// IsPresumedProfit reports whether the tax base is a presumed share of revenue rather
// than revenue itself.
func (s TaxSetting) IsPresumedProfit() bool {
	return s.BaseRate != nil
}

// IsOpen reports whether this is the current version of the setting.
func (s TaxSetting) IsOpen() bool {
	return s.EndDate == nil
}

// ActiveAt reports whether the version's validity interval contains t.
func (s TaxSetting) ActiveAt(t time.Time) bool {
	if t.Before(s.EffectiveDate) {
		return false
	}
	return s.EndDate == nil || t.Before(*s.EndDate)
}

// ProjectionStatus is the lifecycle state of a tax projection.
type ProjectionStatus string

const (
	StatusProjected ProjectionStatus = "PROJECTED"
	StatusConfirmed ProjectionStatus = "CONFIRMED"
)

// PropertyTaxShare attributes a slice of a projected tax to one property for reporting.
// Informational only; the booked amount is the projection total.
type PropertyTaxShare struct {
	PropertyID   *string `json:"propertyID,omitempty"` // nil for the company-level aggregate
	PropertyName string  `json:"propertyName"`
	Revenue      Money   `json:"revenue"`
	TaxAmount    Money   `json:"taxAmount"`
}

// TaxProjection is a computed, not-yet-paid future tax liability.
//
// Lifecycle: created PROJECTED by the calculator; user edits set ManualOverride and keep
// the original value; confirmation books a ledger transaction, records its id and moves
// the projection to CONFIRMED, which is terminal. Confirmed projections are never
// auto-recalculated or deleted.
type TaxProjection struct {
	ProjectionID         string             `json:"projectionID"` // Primary Key (UUID)
	UserID               string             `json:"userID"`
	TaxType              TaxType            `json:"taxType"`
	ReferenceMonth       ReferenceMonth     `json:"referenceMonth"`
	DueDate              time.Time          `json:"dueDate"`
	BaseAmount           Money              `json:"baseAmount"` // aggregated revenue the tax was computed from
	TaxAmount            Money              `json:"taxAmount"`
	AdditionalAmount     Money              `json:"additionalAmount"` // bracket surtax portion
	TotalAmount          Money              `json:"totalAmount"`
	Status               ProjectionStatus   `json:"status"`
	IsInstallment        bool               `json:"isInstallment"`
	InstallmentNumber    *int               `json:"installmentNumber,omitempty"`
	ParentProjectionID   *string            `json:"parentProjectionID,omitempty"`
	ManualOverride       bool               `json:"manualOverride"`
	OriginalAmount       *Money             `json:"originalAmount,omitempty"` // value before the first manual edit
	Notes                string             `json:"notes"`
	PropertyDistribution []PropertyTaxShare `json:"propertyDistribution,omitempty"`
	TransactionID        *string            `json:"transactionID,omitempty"` // ledger transaction booked on confirmation
	AuditFields
}

// IsConfirmed reports whether the projection reached its terminal state.
func (p TaxProjection) IsConfirmed() bool {
	return p.Status == StatusConfirmed
}
