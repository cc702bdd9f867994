package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	"github.com/imovelbooks/imovel_books_app/internal/core/domain"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
)

// projectionHandler handles HTTP requests related to tax projections.
type projectionHandler struct {
	projectionService portssvc.TaxProjectionSvcFacade
}

// newProjectionHandler creates a new projectionHandler.
func newProjectionHandler(ps portssvc.TaxProjectionSvcFacade) *projectionHandler {
	return &projectionHandler{
		projectionService: ps,
	}
}

// registerProjectionRoutes registers routes related to tax projections.
func registerProjectionRoutes(rg *gin.RouterGroup, projectionService portssvc.TaxProjectionSvcFacade) {
	h := newProjectionHandler(projectionService)

	projections := rg.Group("/tax-projections")
	{
		projections.POST("/calculate", h.calculateProjections)
		projections.POST("/recalculate", h.recalculateProjections)
		projections.GET("", h.listProjections)
		projections.PUT("/:projectionID", h.updateProjection)
		projections.POST("/:projectionID/confirm", h.confirmProjection)
		projections.DELETE("/:projectionID", h.deleteProjection)
	}
}

// calculateProjections godoc
// @Summary Calculate and persist tax projections for a month
// @Description Computes every applicable tax for the reference month from aggregated revenue, expands installments and persists the results
// @Tags tax-projections
// @Accept  json
// @Produce  json
// @Param   request body dto.CalculateProjectionsRequest true "Reference month and optional property subset"
// @Success 201 {array} dto.ProjectionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to calculate projections"
// @Router /tax-projections/calculate [post]
func (h *projectionHandler) calculateProjections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CalculateProjectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CalculateProjections", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	month, err := domain.ParseReferenceMonth(req.ReferenceMonth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Calculating tax projections", slog.String("reference_month", month.String()))

	projections, err := h.projectionService.CalculateTaxProjections(c.Request.Context(), userID, month, req.PropertyIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to calculate projections", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate projections"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectionResponses(projections))
}

// recalculateProjections godoc
// @Summary Recalculate tax projections for a month
// @Description Deletes the month's unconfirmed, untouched projections and recomputes them; confirmed and manually edited projections survive
// @Tags tax-projections
// @Accept  json
// @Produce  json
// @Param   request body dto.CalculateProjectionsRequest true "Reference month"
// @Success 200 {array} dto.ProjectionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to recalculate projections"
// @Router /tax-projections/recalculate [post]
func (h *projectionHandler) recalculateProjections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CalculateProjectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecalculateProjections", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	month, err := domain.ParseReferenceMonth(req.ReferenceMonth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Recalculating tax projections", slog.String("reference_month", month.String()))

	projections, err := h.projectionService.RecalculateForMonth(c.Request.Context(), userID, month)
	if err != nil {
		logger.Error("Failed to recalculate projections", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate projections"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectionResponses(projections))
}

// listProjections godoc
// @Summary List tax projections
// @Description Retrieves the user's projections, filterable by reference month, status, tax type and due date range
// @Tags tax-projections
// @Produce  json
// @Param   referenceMonth query string false "Reference month (YYYY-MM)"
// @Param   status query string false "Status (PROJECTED, CONFIRMED)"
// @Param   taxType query string false "Tax type (PIS, COFINS, CSLL, IRPJ)"
// @Param   dueFrom query string false "Due date lower bound (YYYY-MM-DD)"
// @Param   dueTo query string false "Due date upper bound (YYYY-MM-DD)"
// @Success 200 {array} dto.ProjectionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list projections"
// @Router /tax-projections [get]
func (h *projectionHandler) listProjections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListProjectionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	projections, err := h.projectionService.GetTaxProjections(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list projections", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projections"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectionResponses(projections))
}

// updateProjection godoc
// @Summary Edit a tax projection
// @Description Applies a manual amount or notes edit; the first amount edit preserves the original value and marks the projection overridden
// @Tags tax-projections
// @Accept  json
// @Produce  json
// @Param   projectionID path string true "Projection ID"
// @Param   request body dto.UpdateProjectionRequest true "Fields to update"
// @Success 200 {object} dto.ProjectionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Projection not found"
// @Failure 409 {object} map[string]string "Projection already confirmed"
// @Failure 500 {object} map[string]string "Failed to update projection"
// @Router /tax-projections/{projectionID} [put]
func (h *projectionHandler) updateProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	projectionID := c.Param("projectionID")

	var req dto.UpdateProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProjection", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.projectionService.UpdateProjection(c.Request.Context(), userID, projectionID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Projection not found"})
		case errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "Confirmed projections cannot be edited"})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update projection", slog.String("projection_id", projectionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update projection"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectionResponse(updated))
}

// confirmProjection godoc
// @Summary Confirm a tax projection
// @Description Books the ledger expense for the projection and marks it confirmed; confirming twice fails
// @Tags tax-projections
// @Produce  json
// @Param   projectionID path string true "Projection ID"
// @Success 200 {object} dto.ProjectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Projection not found"
// @Failure 409 {object} map[string]string "Projection already confirmed"
// @Failure 500 {object} map[string]string "Failed to confirm projection"
// @Router /tax-projections/{projectionID}/confirm [post]
func (h *projectionHandler) confirmProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	projectionID := c.Param("projectionID")

	confirmed, err := h.projectionService.ConfirmProjection(c.Request.Context(), userID, projectionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Projection not found"})
		case errors.Is(err, apperrors.ErrAlreadyConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "Projection is already confirmed"})
		default:
			logger.Error("Failed to confirm projection", slog.String("projection_id", projectionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm projection"})
		}
		return
	}

	logger.Info("Projection confirmed", slog.String("projection_id", projectionID))
	c.JSON(http.StatusOK, dto.ToProjectionResponse(confirmed))
}

// deleteProjection godoc
// @Summary Delete a tax projection
// @Description Removes a projection together with its installments; fails when the projection or any installment is confirmed
// @Tags tax-projections
// @Produce  json
// @Param   projectionID path string true "Projection ID"
// @Success 204 "Projection deleted"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Projection not found"
// @Failure 409 {object} map[string]string "Projection or installment is confirmed"
// @Failure 500 {object} map[string]string "Failed to delete projection"
// @Router /tax-projections/{projectionID} [delete]
func (h *projectionHandler) deleteProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	projectionID := c.Param("projectionID")

	if err := h.projectionService.DeleteProjection(c.Request.Context(), userID, projectionID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Projection not found"})
		case errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "Confirmed projections cannot be deleted"})
		default:
			logger.Error("Failed to delete projection", slog.String("projection_id", projectionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete projection"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
