package dto

import "time"

// DashboardStats: headline counters for the admin dashboard
type DashboardStats struct {
	PetRecords        int64   `json:"pet_records"`
	TodayAppointments int64   `json:"today_appointments"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	PendingApprovals  int64   `json:"pending_approvals"`
	TotalUsers        int64   `json:"total_users"`
	TotalPets         int64   `json:"total_pets"`
}

// PendingAppointmentSummary: one row of the dashboard approval queue
type PendingAppointmentSummary struct {
	AppointmentID int64     `json:"appointment_id"`
	OwnerName     string    `json:"owner_name"`
	PetName       string    `json:"pet_name"`
	Service       string    `json:"service"`
	DateTime      time.Time `json:"date_time"`
}

// DashboardResponse: counters plus the next appointments awaiting approval
type DashboardResponse struct {
	Stats               DashboardStats              `json:"stats"`
	PendingAppointments []PendingAppointmentSummary `json:"pending_appointments"`
}

// Metric: a value with its percent change against the previous period
type Metric struct {
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// AnalyticsMetrics: 30-day headline metrics with period-over-period change
type AnalyticsMetrics struct {
	TotalAppointments Metric `json:"total_appointments"`
	NewClients        Metric `json:"new_clients"`
	AvgVisitDuration  Metric `json:"avg_visit_duration"`
	TotalRevenue      Metric `json:"total_revenue"`
}

// StatusBreakdownEntry: appointment count for one status
type StatusBreakdownEntry struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// ServicePerformanceEntry: booking volume per service; Share is the volume as
// a percentage of the busiest service
type ServicePerformanceEntry struct {
	Name        string `json:"name"`
	Volume      int64  `json:"volume"`
	AvgDuration int    `json:"avg_duration"`
	Share       int    `json:"share"`
}

// ServiceSalesEntry: paid revenue per service over the current period
type ServiceSalesEntry struct {
	Name       string  `json:"name"`
	TotalSales float64 `json:"total_sales"`
}

// AnalyticsOverviewResponse: the admin analytics overview
type AnalyticsOverviewResponse struct {
	Metrics            AnalyticsMetrics          `json:"metrics"`
	StatusBreakdown    []StatusBreakdownEntry    `json:"status_breakdown"`
	ServicePerformance []ServicePerformanceEntry `json:"service_performance"`
	ServiceSales       []ServiceSalesEntry       `json:"service_sales"`
}
