package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Prashanty2005/Cargo-Connect/internal/models"
	"github.com/Prashanty2005/Cargo-Connect/internal/repository"
	"github.com/Prashanty2005/Cargo-Connect/internal/service"
	"github.com/Prashanty2005/Cargo-Connect/internal/validation"
	"github.com/Prashanty2005/Cargo-Connect/pkg/middleware"
)

type PaymentHandler struct {
	service *service.PaymentService
	logger  *zap.Logger
}

func NewPaymentHandler(service *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.UserIDKey)

	payment, err := h.service.InitiatePayment(c.Request.Context(), userID, &req)
	if err != nil {
		var verr *validation.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
		case errors.Is(err, repository.ErrActivePaymentExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to initiate payment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
		}
		return
	}

	response := models.PaymentResponse{
		Payment:               payment,
		EstimatedConfirmation: service.EstimatedConfirmation(payment.Method, payment.Network),
	}
	if payment.Method.OnChain() && payment.Network != "" {
		response.Message = "Payment is being processed on the " + payment.Network
	}

	c.JSON(http.StatusCreated, response)
}

// GetPayment handles GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID := c.Param("id")

	payment, err := h.service.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		h.logger.Error("failed to get payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// GetShipmentPayment handles GET /api/v1/shipments/:id/payment
func (h *PaymentHandler) GetShipmentPayment(c *gin.Context) {
	shipmentID := c.Param("id")

	payment, projection, err := h.service.GetShipmentPayment(c.Request.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No payment found for shipment"})
			return
		}
		h.logger.Error("failed to get shipment payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get shipment payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment, "shipment": projection})
}
