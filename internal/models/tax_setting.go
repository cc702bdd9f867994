package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxSetting is the database row for one version of a tax configuration. Monetary
// columns use precise decimal types; the validity interval is [effective_date,
// end_date) with a NULL end_date marking the open version.
type TaxSetting struct {
	SettingID            string           `json:"settingID"`
	UserID               string           `json:"userID"`
	TaxType              string           `json:"taxType"`
	Rate                 decimal.Decimal  `json:"rate"`
	BaseRate             *decimal.Decimal `json:"baseRate"`
	AdditionalRate       *decimal.Decimal `json:"additionalRate"`
	AdditionalThreshold  *decimal.Decimal `json:"additionalThreshold"`
	PaymentFrequency     string           `json:"paymentFrequency"`
	DueDay               int              `json:"dueDay"`
	InstallmentAllowed   bool             `json:"installmentAllowed"`
	InstallmentThreshold *decimal.Decimal `json:"installmentThreshold"`
	InstallmentCount     *int             `json:"installmentCount"`
	EffectiveDate        time.Time        `json:"effectiveDate"`
	EndDate              *time.Time       `json:"endDate"`
	AuditFields
}
