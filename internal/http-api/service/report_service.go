package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"petclinic/internal/http-api/dto"
	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"
)

const (
	analyticsWindowDays = 30
	pendingQueueSize    = 5
	topServiceCount     = 4
)

// ReportService computes the admin dashboard counters and the analytics
// overview. Everything is read-only aggregation over existing tables.
type ReportService interface {
	DashboardStats(ctx context.Context) (*dto.DashboardResponse, error)
	AnalyticsOverview(ctx context.Context) (*dto.AnalyticsOverviewResponse, error)
}

type reportService struct {
	repo repository.ReportRepository
	now  func() time.Time
}

func NewReportService(repo repository.ReportRepository, now func() time.Time) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{repo: repo, now: now}
}

func (s *reportService) DashboardStats(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now()
	dayStart := startOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	petRecords, err := s.repo.CountPetRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pet records: %w", err)
	}
	todayAppointments, err := s.repo.CountAppointmentsBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("count today's appointments: %w", err)
	}
	monthlyRevenue, err := s.repo.PaidRevenueBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("sum monthly revenue: %w", err)
	}
	pendingApprovals, err := s.repo.CountAppointmentsByStatus(ctx, models.AppointmentPending)
	if err != nil {
		return nil, fmt.Errorf("count pending approvals: %w", err)
	}
	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	totalPets, err := s.repo.CountPets(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pets: %w", err)
	}
	pending, err := s.repo.PendingAppointments(ctx, pendingQueueSize)
	if err != nil {
		return nil, fmt.Errorf("load pending appointments: %w", err)
	}

	resp := &dto.DashboardResponse{
		Stats: dto.DashboardStats{
			PetRecords:        petRecords,
			TodayAppointments: todayAppointments,
			MonthlyRevenue:    monthlyRevenue,
			PendingApprovals:  pendingApprovals,
			TotalUsers:        totalUsers,
			TotalPets:         totalPets,
		},
		PendingAppointments: make([]dto.PendingAppointmentSummary, 0, len(pending)),
	}
	for _, appointment := range pending {
		row := dto.PendingAppointmentSummary{
			AppointmentID: appointment.ID,
			Service:       appointment.Service,
			DateTime:      appointment.DateTime,
		}
		if appointment.User != nil {
			row.OwnerName = appointment.User.FirstName + " " + appointment.User.LastName
		}
		if appointment.Pet != nil {
			row.PetName = appointment.Pet.PetName
		}
		resp.PendingAppointments = append(resp.PendingAppointments, row)
	}
	return resp, nil
}

// AnalyticsOverview compares the last 30 days against the 30 days before
// them. Both windows are closed at the end of today, so future-dated bookings
// never skew the comparison.
func (s *reportService) AnalyticsOverview(ctx context.Context) (*dto.AnalyticsOverviewResponse, error) {
	dayStart := startOfDay(s.now())
	horizon := dayStart.AddDate(0, 0, 1)
	currentFrom := horizon.AddDate(0, 0, -analyticsWindowDays)
	previousFrom := horizon.AddDate(0, 0, -2*analyticsWindowDays)

	currentAppointments, err := s.repo.CountAppointmentsBetween(ctx, currentFrom, horizon)
	if err != nil {
		return nil, fmt.Errorf("count current appointments: %w", err)
	}
	previousAppointments, err := s.repo.CountAppointmentsBetween(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, fmt.Errorf("count previous appointments: %w", err)
	}
	currentClients, err := s.repo.CountDistinctClientsBetween(ctx, currentFrom, horizon)
	if err != nil {
		return nil, fmt.Errorf("count current clients: %w", err)
	}
	previousClients, err := s.repo.CountDistinctClientsBetween(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, fmt.Errorf("count previous clients: %w", err)
	}
	currentDuration, err := s.repo.AvgVisitDurationBetween(ctx, currentFrom, horizon)
	if err != nil {
		return nil, fmt.Errorf("average current visit duration: %w", err)
	}
	previousDuration, err := s.repo.AvgVisitDurationBetween(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, fmt.Errorf("average previous visit duration: %w", err)
	}
	currentRevenue, err := s.repo.PaidRevenueBetween(ctx, currentFrom, horizon)
	if err != nil {
		return nil, fmt.Errorf("sum current revenue: %w", err)
	}
	previousRevenue, err := s.repo.PaidRevenueBetween(ctx, previousFrom, currentFrom)
	if err != nil {
		return nil, fmt.Errorf("sum previous revenue: %w", err)
	}

	statusRows, err := s.repo.StatusBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("status breakdown: %w", err)
	}
	topServices, err := s.repo.TopServicesByVolume(ctx, topServiceCount)
	if err != nil {
		return nil, fmt.Errorf("top services: %w", err)
	}
	salesRows, err := s.repo.PaidSalesByService(ctx, currentFrom, horizon)
	if err != nil {
		return nil, fmt.Errorf("service sales: %w", err)
	}

	resp := &dto.AnalyticsOverviewResponse{
		Metrics: dto.AnalyticsMetrics{
			TotalAppointments: changeMetric(float64(currentAppointments), float64(previousAppointments)),
			NewClients:        changeMetric(float64(currentClients), float64(previousClients)),
			AvgVisitDuration: dto.Metric{
				Value:  math.Round(currentDuration),
				Change: computeChange(currentDuration, previousDuration),
			},
			TotalRevenue: changeMetric(currentRevenue, previousRevenue),
		},
		StatusBreakdown:    make([]dto.StatusBreakdownEntry, 0, len(statusRows)),
		ServicePerformance: make([]dto.ServicePerformanceEntry, 0, len(topServices)),
		ServiceSales:       make([]dto.ServiceSalesEntry, 0, len(salesRows)),
	}

	for _, row := range statusRows {
		resp.StatusBreakdown = append(resp.StatusBreakdown, dto.StatusBreakdownEntry{
			Status: row.Status,
			Total:  row.Total,
		})
	}

	var maxVolume int64
	for _, row := range topServices {
		if row.Volume > maxVolume {
			maxVolume = row.Volume
		}
	}
	for _, row := range topServices {
		share := 0
		if maxVolume > 0 {
			share = int(math.Round(float64(row.Volume) / float64(maxVolume) * 100))
		}
		resp.ServicePerformance = append(resp.ServicePerformance, dto.ServicePerformanceEntry{
			Name:        row.Name,
			Volume:      row.Volume,
			AvgDuration: int(math.Round(row.AvgDuration)),
			Share:       share,
		})
	}

	for _, row := range salesRows {
		resp.ServiceSales = append(resp.ServiceSales, dto.ServiceSalesEntry{
			Name:       row.Name,
			TotalSales: row.TotalSales,
		})
	}

	return resp, nil
}

func changeMetric(current, previous float64) dto.Metric {
	return dto.Metric{Value: current, Change: computeChange(current, previous)}
}

// computeChange is the percent change against the previous period. An empty
// previous period reads as a 100% jump when the current one has any volume.
func computeChange(current, previous float64) float64 {
	if previous <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
