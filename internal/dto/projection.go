package dto

import (
	"time"

	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
)

// CalculateProjectionsRequest asks for projections over one reference month, optionally
// restricted to a subset of properties.
type CalculateProjectionsRequest struct {
	ReferenceMonth string   `json:"referenceMonth" binding:"required"`
	PropertyIDs    []string `json:"propertyIDs,omitempty"`
}

// ListProjectionsParams filters a projection listing.
type ListProjectionsParams struct {
	ReferenceMonth *string `form:"referenceMonth"`
	Status         *string `form:"status" binding:"omitempty,oneof=PROJECTED CONFIRMED"`
	TaxType        *string `form:"taxType" binding:"omitempty,oneof=PIS COFINS CSLL IRPJ"`
	DueFrom        *string `form:"dueFrom"`
	DueTo          *string `form:"dueTo"`
}

// UpdateProjectionRequest edits a projection. A non-nil TotalAmount marks the
// projection as manually overridden.
type UpdateProjectionRequest struct {
	TotalAmount *domain.Money `json:"totalAmount,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
}

// PropertyTaxShareResponse is one property's informational slice of a projection.
type PropertyTaxShareResponse struct {
	PropertyID   *string      `json:"propertyID,omitempty"`
	PropertyName string       `json:"propertyName"`
	Revenue      domain.Money `json:"revenue"`
	TaxAmount    domain.Money `json:"taxAmount"`
}

// ProjectionResponse is the external representation of a tax projection. Monetary
// fields serialize as decimal strings.
type ProjectionResponse struct {
	ProjectionID         string                     `json:"projectionID"`
	TaxType              domain.TaxType             `json:"taxType"`
	ReferenceMonth       string                     `json:"referenceMonth"`
	DueDate              time.Time                  `json:"dueDate"`
	BaseAmount           domain.Money               `json:"baseAmount"`
	TaxAmount            domain.Money               `json:"taxAmount"`
	AdditionalAmount     domain.Money               `json:"additionalAmount"`
	TotalAmount          domain.Money               `json:"totalAmount"`
	TotalAmountFormatted string                     `json:"totalAmountFormatted"`
	Status               domain.ProjectionStatus    `json:"status"`
	IsInstallment        bool                       `json:"isInstallment"`
	InstallmentNumber    *int                       `json:"installmentNumber,omitempty"`
	ParentProjectionID   *string                    `json:"parentProjectionID,omitempty"`
	ManualOverride       bool                       `json:"manualOverride"`
	OriginalAmount       *domain.Money              `json:"originalAmount,omitempty"`
	Notes                string                     `json:"notes,omitempty"`
	PropertyDistribution []PropertyTaxShareResponse `json:"propertyDistribution,omitempty"`
	TransactionID        *string                    `json:"transactionID,omitempty"`
}

// ToProjectionResponse converts a domain.TaxProjection to its response DTO.
func ToProjectionResponse(p *domain.TaxProjection) ProjectionResponse {
	shares := make([]PropertyTaxShareResponse, len(p.PropertyDistribution))
	for i, s := range p.PropertyDistribution {
		shares[i] = PropertyTaxShareResponse{
			PropertyID:   s.PropertyID,
			PropertyName: s.PropertyName,
			Revenue:      s.Revenue,
			TaxAmount:    s.TaxAmount,
		}
	}
	return ProjectionResponse{
		ProjectionID:         p.ProjectionID,
		TaxType:              p.TaxType,
		ReferenceMonth:       p.ReferenceMonth.String(),
		DueDate:              p.DueDate,
		BaseAmount:           p.BaseAmount,
		TaxAmount:            p.TaxAmount,
		AdditionalAmount:     p.AdditionalAmount,
		TotalAmount:          p.TotalAmount,
		TotalAmountFormatted: p.TotalAmount.FormatBRL(),
		Status:               p.Status,
		IsInstallment:        p.IsInstallment,
		InstallmentNumber:    p.InstallmentNumber,
		ParentProjectionID:   p.ParentProjectionID,
		ManualOverride:       p.ManualOverride,
		OriginalAmount:       p.OriginalAmount,
		Notes:                p.Notes,
		PropertyDistribution: shares,
		TransactionID:        p.TransactionID,
	}
}

// ToProjectionResponses converts a slice of projections to response DTOs.
func ToProjectionResponses(projections []domain.TaxProjection) []ProjectionResponse {
	responses := make([]ProjectionResponse, len(projections))
	for i := range projections {
		responses[i] = ToProjectionResponse(&projections[i])
	}
	return responses
}
