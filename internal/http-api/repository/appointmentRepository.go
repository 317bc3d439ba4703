package repository

import (
	"context"
	"time"

	"petclinic/internal/http-api/models"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id int64) (*models.Appointment, error)
	GetByIDJoined(ctx context.Context, id int64) (*models.Appointment, error)
	GetByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	GetAll(ctx context.Context) ([]models.Appointment, error)
	// UpdateStatus performs a guarded transition: the row is only updated when
	// its current status is one of allowedFrom. Returns the number of rows
	// changed so callers can detect a lost race.
	UpdateStatus(ctx context.Context, id int64, to string, reason *string, allowedFrom ...string) (int64, error)
	GetBookedTimes(ctx context.Context, serviceName string, day time.Time) ([]time.Time, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).Where("appointment_id = ?", id).First(&appointment).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// GetByIDJoined loads the appointment with its user, pet and resolved service.
func (r *appointmentRepository) GetByIDJoined(ctx context.Context, id int64) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Pet").
		Preload("ResolvedService").
		Where("appointment_id = ?", id).
		First(&appointment).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) GetByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Pet").
		Preload("ResolvedService").
		Where("user_id = ?", userID).
		Order("date_time DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) GetAll(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Pet").
		Preload("ResolvedService").
		Order("date_time DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, to string, reason *string, allowedFrom ...string) (int64, error) {
	updates := map[string]any{"status": to}
	if reason != nil {
		updates["cancellation_reason"] = *reason
	}

	result := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("appointment_id = ? AND status IN ?", id, allowedFrom).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// GetBookedTimes returns the date_time of Pending/Accepted appointments for a
// service (matched by resolved catalog name or free-text name) on a given day.
func (r *appointmentRepository) GetBookedTimes(ctx context.Context, serviceName string, day time.Time) ([]time.Time, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Joins("LEFT JOIN services ON services.service_id = appointments.service_id").
		Where("(services.service_name = ? OR appointments.service = ?)", serviceName, serviceName).
		Where("appointments.date_time >= ? AND appointments.date_time < ?", startOfDay, endOfDay).
		Where("appointments.status IN ?", []string{models.AppointmentPending, models.AppointmentAccepted}).
		Pluck("appointments.date_time", &times).Error
	return times, err
}
