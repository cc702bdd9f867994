package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
)

// reportingHandler handles HTTP requests for tax reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to tax reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/tax-reports")
	{
		reports.GET("/preview", h.getTaxPreview)
		reports.GET("/pis-cofins", h.getPisCofins)
		reports.GET("/summary", h.getTaxSummary)
		reports.GET("/monthly-comparison", h.getMonthlyComparison)
	}
}

// monthQueryParam parses the required referenceMonth query parameter.
func monthQueryParam(c *gin.Context) (domain.ReferenceMonth, bool) {
	month, err := domain.ParseReferenceMonth(c.Query("referenceMonth"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return month, true
}

// yearQueryParam parses the required year query parameter.
func yearQueryParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1900 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year, expected a four digit number"})
		return 0, false
	}
	return year, true
}

// getTaxPreview godoc
// @Summary Preview tax projections for a month
// @Description Runs the full tax calculation for the reference month without persisting anything
// @Tags tax-reports
// @Produce  json
// @Param   referenceMonth query string true "Reference month (YYYY-MM)"
// @Param   propertyIDs query []string false "Property subset"
// @Success 200 {object} dto.TaxPreviewResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate preview"
// @Router /tax-reports/preview [get]
func (h *reportingHandler) getTaxPreview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, ok := monthQueryParam(c)
	if !ok {
		return
	}

	preview, err := h.reportingService.GenerateTaxPreview(c.Request.Context(), userID, month, c.QueryArray("propertyIDs"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to generate tax preview", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate preview"})
		}
		return
	}

	c.JSON(http.StatusOK, preview)
}

// getPisCofins godoc
// @Summary Calculate the monthly PIS/COFINS liability
// @Description Quick consumption-tax calculation over the month's aggregated revenue using the active flat rates
// @Tags tax-reports
// @Produce  json
// @Param   referenceMonth query string true "Reference month (YYYY-MM)"
// @Success 200 {object} dto.PisCofinsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to calculate PIS/COFINS"
// @Router /tax-reports/pis-cofins [get]
func (h *reportingHandler) getPisCofins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	month, ok := monthQueryParam(c)
	if !ok {
		return
	}

	result, err := h.reportingService.CalculatePisCofins(c.Request.Context(), userID, month)
	if err != nil {
		logger.Error("Failed to calculate PIS/COFINS", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate PIS/COFINS"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// getTaxSummary godoc
// @Summary Summarize a year's tax load
// @Description Aggregates the year's projections per tax type with projected and confirmed totals
// @Tags tax-reports
// @Produce  json
// @Param   year query int true "Calendar year"
// @Success 200 {object} dto.TaxSummaryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build summary"
// @Router /tax-reports/summary [get]
func (h *reportingHandler) getTaxSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, ok := yearQueryParam(c)
	if !ok {
		return
	}

	summary, err := h.reportingService.GetTaxSummary(c.Request.Context(), userID, year)
	if err != nil {
		logger.Error("Failed to build tax summary", slog.Int("year", year), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// getMonthlyComparison godoc
// @Summary Compare revenue and taxes month by month
// @Description Lists per-month revenue, tax totals and effective rate for a calendar year
// @Tags tax-reports
// @Produce  json
// @Param   year query int true "Calendar year"
// @Success 200 {object} dto.MonthlyComparisonResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build comparison"
// @Router /tax-reports/monthly-comparison [get]
func (h *reportingHandler) getMonthlyComparison(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, ok := yearQueryParam(c)
	if !ok {
		return
	}

	comparison, err := h.reportingService.GetMonthlyComparison(c.Request.Context(), userID, year)
	if err != nil {
		logger.Error("Failed to build monthly comparison", slog.Int("year", year), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build comparison"})
		return
	}

	c.JSON(http.StatusOK, comparison)
}
