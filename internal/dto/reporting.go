package dto

import (
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxPreviewResponse is a dry-run calculation for one reference month; nothing is
// persisted.
type TaxPreviewResponse struct {
	ReferenceMonth string               `json:"referenceMonth"`
	TotalRevenue   domain.Money         `json:"totalRevenue"`
	TotalTax       domain.Money         `json:"totalTax"`
	Projections    []ProjectionResponse `json:"projections"`
}

// PisCofinsResponse is the quick monthly consumption-tax calculation.
type PisCofinsResponse struct {
	ReferenceMonth string       `json:"referenceMonth"`
	TotalRevenue   domain.Money `json:"totalRevenue"`
	PisAmount      domain.Money `json:"pisAmount"`
	CofinsAmount   domain.Money `json:"cofinsAmount"`
	TotalAmount    domain.Money `json:"totalAmount"`
}

// TaxTypeSummary aggregates one tax type over a year.
type TaxTypeSummary struct {
	TaxType         domain.TaxType `json:"taxType"`
	ProjectedCount  int            `json:"projectedCount"`
	ConfirmedCount  int            `json:"confirmedCount"`
	ProjectedAmount domain.Money   `json:"projectedAmount"`
	ConfirmedAmount domain.Money   `json:"confirmedAmount"`
	TotalAmount     domain.Money   `json:"totalAmount"`
}

// TaxSummaryResponse aggregates the year's tax burden per tax type.
type TaxSummaryResponse struct {
	Year       int              `json:"year"`
	ByTaxType  []TaxTypeSummary `json:"byTaxType"`
	GrandTotal domain.Money     `json:"grandTotal"`
}

// MonthlyComparisonRow is one month of the revenue-versus-tax comparison.
type MonthlyComparisonRow struct {
	ReferenceMonth string          `json:"referenceMonth"`
	Revenue        domain.Money    `json:"revenue"`
	TaxTotal       domain.Money    `json:"taxTotal"`
	EffectiveRate  decimal.Decimal `json:"effectiveRate"` // percent, 2 decimal places
}

// MonthlyComparisonResponse covers the twelve months of a year.
type MonthlyComparisonResponse struct {
	Year   int                    `json:"year"`
	Months []MonthlyComparisonRow `json:"months"`
}
