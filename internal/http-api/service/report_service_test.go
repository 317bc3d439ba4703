package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats_AggregatesCounters(t *testing.T) {
	repo := new(MockReportRepo)
	svc := NewReportService(repo, fixedNow)

	dayStart := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	monthStart := dayStart

	repo.On("CountPetRecords", mock.Anything).Return(int64(120), nil)
	repo.On("CountAppointmentsBetween", mock.Anything, dayStart, dayStart.AddDate(0, 0, 1)).Return(int64(4), nil)
	repo.On("PaidRevenueBetween", mock.Anything, monthStart, monthStart.AddDate(0, 1, 0)).Return(15000.0, nil)
	repo.On("CountAppointmentsByStatus", mock.Anything, models.AppointmentPending).Return(int64(3), nil)
	repo.On("CountUsers", mock.Anything).Return(int64(50), nil)
	repo.On("CountPets", mock.Anything).Return(int64(80), nil)
	repo.On("PendingAppointments", mock.Anything, 5).Return([]models.Appointment{
		{
			ID:       42,
			Service:  "Grooming",
			DateTime: dayStart.Add(15 * time.Hour),
			User:     &models.User{FirstName: "Juan", LastName: "Dela Cruz"},
			Pet:      &models.Pet{PetName: "Max"},
		},
	}, nil)

	resp, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(120), resp.Stats.PetRecords)
	assert.Equal(t, int64(4), resp.Stats.TodayAppointments)
	assert.Equal(t, 15000.0, resp.Stats.MonthlyRevenue)
	assert.Equal(t, int64(3), resp.Stats.PendingApprovals)
	assert.Equal(t, int64(50), resp.Stats.TotalUsers)
	assert.Equal(t, int64(80), resp.Stats.TotalPets)

	require.Len(t, resp.PendingAppointments, 1)
	assert.Equal(t, int64(42), resp.PendingAppointments[0].AppointmentID)
	assert.Equal(t, "Juan Dela Cruz", resp.PendingAppointments[0].OwnerName)
	assert.Equal(t, "Max", resp.PendingAppointments[0].PetName)
	repo.AssertExpectations(t)
}

func TestDashboardStats_CountFailurePropagates(t *testing.T) {
	repo := new(MockReportRepo)
	svc := NewReportService(repo, fixedNow)

	repo.On("CountPetRecords", mock.Anything).Return(int64(0), errors.New("db down"))

	_, err := svc.DashboardStats(context.Background())
	assert.Error(t, err)
}

func TestAnalyticsOverview_PeriodOverPeriodWindows(t *testing.T) {
	repo := new(MockReportRepo)
	svc := NewReportService(repo, fixedNow)

	// with "now" fixed at Oct 1: current window Sep 2 .. Oct 2,
	// previous window Aug 3 .. Sep 2
	horizon := time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC)
	currentFrom := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	previousFrom := time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)

	repo.On("CountAppointmentsBetween", mock.Anything, currentFrom, horizon).Return(int64(30), nil)
	repo.On("CountAppointmentsBetween", mock.Anything, previousFrom, currentFrom).Return(int64(20), nil)
	repo.On("CountDistinctClientsBetween", mock.Anything, currentFrom, horizon).Return(int64(12), nil)
	repo.On("CountDistinctClientsBetween", mock.Anything, previousFrom, currentFrom).Return(int64(0), nil)
	repo.On("AvgVisitDurationBetween", mock.Anything, currentFrom, horizon).Return(45.4, nil)
	repo.On("AvgVisitDurationBetween", mock.Anything, previousFrom, currentFrom).Return(45.4, nil)
	repo.On("PaidRevenueBetween", mock.Anything, currentFrom, horizon).Return(0.0, nil)
	repo.On("PaidRevenueBetween", mock.Anything, previousFrom, currentFrom).Return(0.0, nil)
	repo.On("StatusBreakdown", mock.Anything).Return([]repository.StatusCount{
		{Status: models.AppointmentPending, Total: 3},
		{Status: models.AppointmentCompleted, Total: 27},
	}, nil)
	repo.On("TopServicesByVolume", mock.Anything, 4).Return([]repository.ServiceVolume{
		{Name: "Grooming", Volume: 20, AvgDuration: 60},
		{Name: "Checkup", Volume: 10, AvgDuration: 29.6},
	}, nil)
	repo.On("PaidSalesByService", mock.Anything, currentFrom, horizon).Return([]repository.ServiceSales{
		{Name: "Grooming", TotalSales: 9000},
	}, nil)

	resp, err := svc.AnalyticsOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30.0, resp.Metrics.TotalAppointments.Value)
	assert.InDelta(t, 50.0, resp.Metrics.TotalAppointments.Change, 0.001)
	// no clients in the previous period reads as a 100% jump
	assert.Equal(t, 100.0, resp.Metrics.NewClients.Change)
	assert.Equal(t, 45.0, resp.Metrics.AvgVisitDuration.Value)
	assert.Equal(t, 0.0, resp.Metrics.AvgVisitDuration.Change)
	// both periods empty is flat, not a jump
	assert.Equal(t, 0.0, resp.Metrics.TotalRevenue.Change)

	require.Len(t, resp.StatusBreakdown, 2)
	assert.Equal(t, int64(3), resp.StatusBreakdown[0].Total)

	require.Len(t, resp.ServicePerformance, 2)
	assert.Equal(t, 100, resp.ServicePerformance[0].Share)
	assert.Equal(t, 50, resp.ServicePerformance[1].Share)
	assert.Equal(t, 30, resp.ServicePerformance[1].AvgDuration)

	require.Len(t, resp.ServiceSales, 1)
	assert.Equal(t, 9000.0, resp.ServiceSales[0].TotalSales)
	repo.AssertExpectations(t)
}

func TestComputeChange(t *testing.T) {
	assert.Equal(t, 0.0, computeChange(0, 0))
	assert.Equal(t, 100.0, computeChange(5, 0))
	assert.InDelta(t, -25.0, computeChange(15, 20), 0.001)
}
