package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"petclinic/internal/http-api/dto"
	"petclinic/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	svc service.BillingService
}

func NewBillingHandler(svc service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.ListOwn)
	rg.POST("/:billing_id/pay", h.MarkPaid)
}

func (h *BillingHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.ListAll)
	rg.POST("/:billing_id/pay", h.MarkPaid)
}

// ListOwn returns the caller's payable invoices.
func (h *BillingHandler) ListOwn(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	billing, err := h.svc.GetUserBilling(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"billing": billing, "total": len(billing)})
}

func (h *BillingHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	billing, err := h.svc.GetAllBilling(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"billing": billing, "total": len(billing)})
}

func (h *BillingHandler) MarkPaid(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	role, _ := c.Get("role")
	isAdmin := role == "admin"

	billingID, err := strconv.ParseInt(c.Param("billing_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid billing_id"})
		return
	}

	var req dto.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var reference *string
	if req.PaymentReference != "" {
		reference = &req.PaymentReference
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	billing, err := h.svc.MarkPaid(ctx, billingID, userID.(string), isAdmin, reference)
	if err != nil {
		if errors.Is(err, service.ErrBillingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "billing record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.BillingResponse{
		BillingID:     billing.ID,
		AppointmentID: billing.AppointmentID,
		Amount:        billing.Amount,
		Status:        billing.Status,
	})
}
