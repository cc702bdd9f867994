package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imovelbooks/imovel_books_app/internal/apperrors"
	portssvc "github.com/imovelbooks/imovel_books_app/internal/core/ports/services"
	"github.com/imovelbooks/imovel_books_app/internal/dto"
	"github.com/imovelbooks/imovel_books_app/internal/middleware"
)

// paymentHandler handles HTTP requests related to distributed payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// registerPaymentRoutes registers routes related to distributed payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("/distributed", h.createDistributedPayment)
		payments.POST("/management-fee", h.createManagementExpense)
		payments.POST("/mauricio", h.createMauricioExpense)
	}
}

// respondPaymentError maps a payment service error onto an HTTP status.
func respondPaymentError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrEmptySelection),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrDivisionByZero),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to create distributed payment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
	}
}

// createDistributedPayment godoc
// @Summary Book a distributed tax payment
// @Description Splits one payment total across the selected properties and books the parent plus child transactions atomically
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateDistributedPaymentRequest true "Payment details"
// @Success 201 {object} dto.CompositeTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to create payment"
// @Router /payments/distributed [post]
func (h *paymentHandler) createDistributedPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateDistributedPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDistributedPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	composite, err := h.paymentService.CreateDistributedTaxPayment(c.Request.Context(), userID, req)
	if err != nil {
		respondPaymentError(c, logger, err)
		return
	}

	logger.Info("Distributed payment created",
		slog.String("parent_transaction_id", composite.Parent.TransactionID),
		slog.Int("children", len(composite.Children)))
	c.JSON(http.StatusCreated, dto.ToCompositeTransactionResponse(composite))
}

// createManagementExpense godoc
// @Summary Book a management fee expense
// @Description Splits a management fee across the selected properties as one composite transaction
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.CompositeTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to create payment"
// @Router /payments/management-fee [post]
func (h *paymentHandler) createManagementExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateManagementExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	composite, err := h.paymentService.CreateManagementExpense(c.Request.Context(), userID, req)
	if err != nil {
		respondPaymentError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompositeTransactionResponse(composite))
}

// createMauricioExpense godoc
// @Summary Book a Mauricio expense
// @Description Splits the recurring Mauricio expense across the selected properties as one composite transaction
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.CompositeTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Property not found"
// @Failure 500 {object} map[string]string "Failed to create payment"
// @Router /payments/mauricio [post]
func (h *paymentHandler) createMauricioExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMauricioExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	composite, err := h.paymentService.CreateMauricioExpense(c.Request.Context(), userID, req)
	if err != nil {
		respondPaymentError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompositeTransactionResponse(composite))
}
