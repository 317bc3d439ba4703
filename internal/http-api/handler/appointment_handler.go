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

type AppointmentHandler struct {
	svc service.AppointmentService
}

func NewAppointmentHandler(svc service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// RegisterRoutes wires the owner-facing appointment endpoints.
func (h *AppointmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/", h.Create)
	rg.GET("/", h.ListOwn)
	rg.GET("/pets", h.ListPets)
	rg.PATCH("/:appointment_id/cancel", h.Cancel)
}

// RegisterAdminRoutes wires the clinic-side endpoints.
func (h *AppointmentHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.ListAll)
	rg.PATCH("/:appointment_id/accept", h.Accept)
	rg.PATCH("/:appointment_id/complete", h.Complete)
	rg.PATCH("/:appointment_id/cancel", h.Cancel)
}

// Create books an appointment for one of the caller's pets.
func (h *AppointmentHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.svc.Create(ctx, service.CreateAppointmentInput{
		UserID:   userID.(string),
		PetID:    req.PetID,
		DateTime: req.DateTime,
		Service:  req.Service,
		Notes:    req.Notes,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.AppointmentResponse{
		AppointmentID: result.Appointment.ID,
		Status:        result.Appointment.Status,
		Warnings:      result.Warnings,
	}
	if result.Billing != nil {
		resp.Billing = &dto.BillingResponse{
			BillingID:     result.Billing.ID,
			AppointmentID: result.Billing.AppointmentID,
			Amount:        result.Billing.Amount,
			Status:        result.Billing.Status,
		}
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AppointmentHandler) ListOwn(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	appointments, err := h.svc.GetByUser(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments, "total": len(appointments)})
}

// ListPets returns the caller's pets for the booking form.
func (h *AppointmentHandler) ListPets(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	pets, err := h.svc.UserPets(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": pets, "total": len(pets)})
}

func (h *AppointmentHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	appointments, err := h.svc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments, "total": len(appointments)})
}

func (h *AppointmentHandler) Accept(c *gin.Context) {
	appointmentID, err := appointmentParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	appointment, err := h.svc.Accept(ctx, appointmentID)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment_id": appointment.ID, "status": appointment.Status})
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	appointmentID, err := appointmentParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	appointment, err := h.svc.Complete(ctx, appointmentID)
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment_id": appointment.ID, "status": appointment.Status})
}

// Cancel serves both owners and admins; the service decides what the caller
// may touch.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	appointmentID, err := appointmentParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment_id"})
		return
	}

	var req dto.CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	appointment, err := h.svc.Cancel(ctx, appointmentID, req.Reason, roleStr, userID.(string))
	if err != nil {
		respondAppointmentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment_id": appointment.ID, "status": appointment.Status})
}

func appointmentParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("appointment_id"), 10, 64)
}

func respondAppointmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
