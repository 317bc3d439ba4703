package handler

import (
	"context"
	"net/http"
	"time"

	"petclinic/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the admin dashboard and analytics aggregations.
type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func (h *ReportHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.DashboardStats)
	rg.GET("/analytics/overview", h.AnalyticsOverview)
}

func (h *ReportHandler) DashboardStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.svc.DashboardStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) AnalyticsOverview(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	overview, err := h.svc.AnalyticsOverview(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch analytics overview"})
		return
	}
	c.JSON(http.StatusOK, overview)
}
