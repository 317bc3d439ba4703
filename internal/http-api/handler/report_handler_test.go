package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"petclinic/internal/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReportService mocks the ReportService interface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) DashboardStats(ctx context.Context) (*dto.DashboardResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardResponse), args.Error(1)
}

func (m *MockReportService) AnalyticsOverview(ctx context.Context) (*dto.AnalyticsOverviewResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalyticsOverviewResponse), args.Error(1)
}

func TestDashboardStats_ReturnsAggregates(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	router := setupRouter()
	router.GET("/admin/dashboard/stats", withIdentity("admin-1", "admin"), handler.DashboardStats)

	svc.On("DashboardStats", mock.Anything).Return(&dto.DashboardResponse{
		Stats: dto.DashboardStats{
			PetRecords:       120,
			MonthlyRevenue:   15000,
			PendingApprovals: 3,
		},
		PendingAppointments: []dto.PendingAppointmentSummary{
			{AppointmentID: 42, OwnerName: "Juan Dela Cruz", PetName: "Max", Service: "Grooming"},
		},
	}, nil)

	req, _ := http.NewRequest("GET", "/admin/dashboard/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.DashboardResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(120), response.Stats.PetRecords)
	assert.Equal(t, 15000.0, response.Stats.MonthlyRevenue)
	assert.Len(t, response.PendingAppointments, 1)
	assert.Equal(t, "Max", response.PendingAppointments[0].PetName)
}

func TestAnalyticsOverview_ErrorIsInternal(t *testing.T) {
	svc := new(MockReportService)
	handler := NewReportHandler(svc)
	router := setupRouter()
	router.GET("/admin/analytics/overview", withIdentity("admin-1", "admin"), handler.AnalyticsOverview)

	svc.On("AnalyticsOverview", mock.Anything).Return(nil, errors.New("db down"))

	req, _ := http.NewRequest("GET", "/admin/analytics/overview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
