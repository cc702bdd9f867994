package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
)

// taxSettingHandler handles HTTP requests related to tax settings.
type taxSettingHandler struct {
	settingsService portssvc.TaxSettingsSvcFacade
}

// newTaxSettingHandler creates a new taxSettingHandler.
func newTaxSettingHandler(ss portssvc.TaxSettingsSvcFacade) *taxSettingHandler {
	return &taxSettingHandler{
		settingsService: ss,
	}
}

// registerTaxSettingRoutes registers routes related to tax settings.
func registerTaxSettingRoutes(rg *gin.RouterGroup, settingsService portssvc.TaxSettingsSvcFacade) {
	h := newTaxSettingHandler(settingsService)

	settings := rg.Group("/tax-settings")
	{
		settings.GET("", h.listTaxSettings)
		settings.PUT("/:taxType", h.updateTaxSetting)
		settings.POST("/initialize", h.initializeDefaults)
	}
}

// parseTaxTypeParam validates a tax type path or query value.
func parseTaxTypeParam(value string) (domain.TaxType, bool) {
	taxType := domain.TaxType(value)
	for _, known := range domain.KnownTaxTypes {
		if taxType == known {
			return taxType, true
		}
	}
	return "", false
}

// listTaxSettings godoc
// @Summary List active tax settings
// @Description Retrieves the setting versions active at the given date (default today), optionally narrowed to one tax type
// @Tags tax-settings
// @Produce  json
// @Param   taxType query string false "Tax type (PIS, COFINS, CSLL, IRPJ)"
// @Param   date query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {array} dto.TaxSettingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list tax settings"
// @Router /tax-settings [get]
func (h *taxSettingHandler) listTaxSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var taxType *domain.TaxType
	if raw := c.Query("taxType"); raw != "" {
		parsed, valid := parseTaxTypeParam(raw)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown tax type '%s'", raw)})
			return
		}
		taxType = &parsed
	}

	referenceDate := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
			return
		}
		referenceDate = parsed
	}

	settings, err := h.settingsService.GetActiveSettings(c.Request.Context(), userID, taxType, referenceDate)
	if err != nil {
		logger.Error("Failed to list tax settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tax settings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTaxSettingResponses(settings))
}

// updateTaxSetting godoc
// @Summary Update a tax setting
// @Description Closes the open version for the tax type and inserts a new version effective today
// @Tags tax-settings
// @Accept  json
// @Produce  json
// @Param   taxType path string true "Tax type (PIS, COFINS, CSLL, IRPJ)"
// @Param   setting body dto.UpdateTaxSettingRequest true "New setting values"
// @Success 200 {object} dto.TaxSettingResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "No open setting version to replace"
// @Failure 500 {object} map[string]string "Failed to update tax setting"
// @Router /tax-settings/{taxType} [put]
func (h *taxSettingHandler) updateTaxSetting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	taxType, valid := parseTaxTypeParam(c.Param("taxType"))
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown tax type '%s'", c.Param("taxType"))})
		return
	}

	var req dto.UpdateTaxSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTaxSetting", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.settingsService.UpdateSettings(c.Request.Context(), userID, taxType, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating tax setting", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("No open setting version to replace", slog.String("tax_type", string(taxType)))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("No open setting for tax type '%s'; initialize defaults first", taxType)})
		} else {
			logger.Error("Failed to update tax setting", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tax setting"})
		}
		return
	}

	logger.Info("Tax setting updated", slog.String("tax_type", string(taxType)), slog.String("setting_id", updated.SettingID))
	c.JSON(http.StatusOK, dto.ToTaxSettingResponse(updated))
}

// initializeDefaults godoc
// @Summary Install the default tax rule set
// @Description Inserts the default presumed-profit settings for every tax type missing an open version; idempotent
// @Tags tax-settings
// @Produce  json
// @Success 204 "Defaults installed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to initialize defaults"
// @Router /tax-settings/initialize [post]
func (h *taxSettingHandler) initializeDefaults(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.settingsService.InitializeDefaults(c.Request.Context(), userID); err != nil {
		logger.Error("Failed to initialize default tax settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize defaults"})
		return
	}

	logger.Info("Default tax settings initialized")
	c.Status(http.StatusNoContent)
}
