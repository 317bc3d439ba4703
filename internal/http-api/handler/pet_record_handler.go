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

// PetRecordHandler serves the clinic-side medical record endpoints plus the
// owner-facing per-pet history.
type PetRecordHandler struct {
	recordSvc service.PetRecordService
	petSvc    service.PetService
}

func NewPetRecordHandler(recordSvc service.PetRecordService, petSvc service.PetService) *PetRecordHandler {
	return &PetRecordHandler{recordSvc: recordSvc, petSvc: petSvc}
}

func (h *PetRecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pet/:pet_id", h.ListForPet)
}

func (h *PetRecordHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/", h.Create)
	rg.GET("/", h.ListAll)
	rg.PUT("/:record_id", h.Update)
	rg.DELETE("/:record_id", h.Delete)
}

func (h *PetRecordHandler) Create(c *gin.Context) {
	var req dto.CreatePetRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	record, err := h.recordSvc.Create(ctx, req.PetID, req.ServiceType, req.RecordData)
	if err != nil {
		if errors.Is(err, service.ErrPetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, record)
}

// ListForPet lets an owner read their own pet's history; admins can read any.
func (h *PetRecordHandler) ListForPet(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	role, _ := c.Get("role")
	isAdmin := role == "admin"

	petID, err := strconv.ParseInt(c.Param("pet_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pet_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.petSvc.GetOwned(ctx, petID, userID.(string), isAdmin); err != nil {
		if errors.Is(err, service.ErrPetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	records, err := h.recordSvc.GetByPet(ctx, petID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": len(records)})
}

func (h *PetRecordHandler) ListAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.recordSvc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": len(records)})
}

func (h *PetRecordHandler) Update(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record_id"})
		return
	}

	var req dto.UpdatePetRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	record, err := h.recordSvc.Update(ctx, recordID, req.ServiceType, req.RecordData)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *PetRecordHandler) Delete(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.recordSvc.Delete(ctx, recordID); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
