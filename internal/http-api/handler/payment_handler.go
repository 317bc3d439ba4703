package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"petclinic/internal/http-api/dto"
	"petclinic/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc service.PaymentService
}

func NewPaymentHandler(svc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.CreateOrder)
	rg.POST("/capture", h.CaptureOrder)
}

// CreateOrder opens a PayPal order for one of the caller's invoices and
// returns the approval link.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	role, _ := c.Get("role")
	isAdmin := role == "admin"

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.svc.CreateOrder(ctx, req.BillingID, userID.(string), isAdmin)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateOrderResponse{
		OrderID:     result.OrderID,
		ApprovalURL: result.ApprovalURL,
	})
}

// CaptureOrder finalizes an approved order and settles the matching invoice.
func (h *PaymentHandler) CaptureOrder(c *gin.Context) {
	var req dto.CaptureOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := h.svc.CaptureOrder(ctx, req.OrderID, req.BillingID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}

	resp := dto.CaptureOrderResponse{
		OrderID:   result.OrderID,
		CaptureID: result.CaptureID,
		Status:    result.Status,
	}
	if result.Billing != nil {
		resp.Billing = &dto.BillingResponse{
			BillingID:     result.Billing.ID,
			AppointmentID: result.Billing.AppointmentID,
			Amount:        result.Billing.Amount,
			Status:        result.Billing.Status,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPayPalNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not available"})
	case errors.Is(err, service.ErrBillingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "billing record not found"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
