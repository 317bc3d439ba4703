package repository

import (
	"context"
	"time"

	"petclinic/internal/http-api/models"

	"gorm.io/gorm"
)

// StatusCount is one row of the appointment status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// ServiceVolume aggregates appointment counts per service. Free-text bookings
// group under the name the user typed.
type ServiceVolume struct {
	Name        string  `json:"name"`
	Volume      int64   `json:"volume"`
	AvgDuration float64 `json:"avg_duration"`
}

// ServiceSales is paid revenue grouped per service.
type ServiceSales struct {
	Name       string  `json:"name"`
	TotalSales float64 `json:"total_sales"`
}

// ReportRepository serves the read-only aggregations behind the admin
// dashboard and analytics endpoints. Time windows are half-open: [from, to).
type ReportRepository interface {
	CountPetRecords(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountPets(ctx context.Context) (int64, error)
	CountAppointmentsByStatus(ctx context.Context, status string) (int64, error)
	CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountDistinctClientsBetween(ctx context.Context, from, to time.Time) (int64, error)
	// AvgVisitDurationBetween averages the catalog duration of booked services.
	// Free-text bookings join to NULL and are ignored by the aggregate.
	AvgVisitDurationBetween(ctx context.Context, from, to time.Time) (float64, error)
	// PaidRevenueBetween sums paid invoices by payment date.
	PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error)
	// PendingAppointments returns the next appointments awaiting approval,
	// with pet and owner loaded.
	PendingAppointments(ctx context.Context, limit int) ([]models.Appointment, error)
	StatusBreakdown(ctx context.Context) ([]StatusCount, error)
	TopServicesByVolume(ctx context.Context, limit int) ([]ServiceVolume, error)
	PaidSalesByService(ctx context.Context, from, to time.Time) ([]ServiceSales, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountPetRecords(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.PetRecord{}).Count(&total).Error
	return total, err
}

func (r *reportRepository) CountUsers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error
	return total, err
}

func (r *reportRepository) CountPets(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Pet{}).Count(&total).Error
	return total, err
}

func (r *reportRepository) CountAppointmentsByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}

func (r *reportRepository) CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date_time >= ? AND date_time < ?", from, to).
		Count(&total).Error
	return total, err
}

func (r *reportRepository) CountDistinctClientsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date_time >= ? AND date_time < ?", from, to).
		Distinct("user_id").
		Count(&total).Error
	return total, err
}

func (r *reportRepository) AvgVisitDurationBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("AVG(services.duration_minutes)").
		Joins("LEFT JOIN services ON services.service_id = appointments.service_id").
		Where("appointments.date_time >= ? AND appointments.date_time < ?", from, to).
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *reportRepository) PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Billing{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", models.BillingPaid).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *reportRepository) PendingAppointments(ctx context.Context, limit int) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Pet").
		Preload("User").
		Where("status = ?", models.AppointmentPending).
		Order("date_time ASC").
		Limit(limit).
		Find(&appointments).Error
	return appointments, err
}

func (r *reportRepository) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) TopServicesByVolume(ctx context.Context, limit int) ([]ServiceVolume, error) {
	var rows []ServiceVolume
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("COALESCE(services.service_name, appointments.service) AS name, COUNT(*) AS volume, COALESCE(AVG(services.duration_minutes), 0) AS avg_duration").
		Joins("LEFT JOIN services ON services.service_id = appointments.service_id").
		Group("name").
		Order("volume DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) PaidSalesByService(ctx context.Context, from, to time.Time) ([]ServiceSales, error) {
	var rows []ServiceSales
	err := r.db.WithContext(ctx).
		Model(&models.Billing{}).
		Select("COALESCE(services.service_name, appointments.service) AS name, COALESCE(SUM(billing.amount), 0) AS total_sales").
		Joins("JOIN appointments ON appointments.appointment_id = billing.appointment_id").
		Joins("LEFT JOIN services ON services.service_id = appointments.service_id").
		Where("billing.status = ?", models.BillingPaid).
		Where("billing.paid_at >= ? AND billing.paid_at < ?", from, to).
		Group("name").
		Order("total_sales DESC").
		Scan(&rows).Error
	return rows, err
}
