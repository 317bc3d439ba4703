package repository

import (
	"context"
	"time"

	"petclinic/internal/http-api/models"

	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.NotificationSchedule) error
	// GetDue fetches up to limit unsent schedules with send_at <= now,
	// oldest first.
	GetDue(ctx context.Context, now time.Time, limit int) ([]models.NotificationSchedule, error)
	// MarkSent claims a schedule: the update only applies while sent is still
	// false, so concurrent pollers cannot both record a delivery. Returns
	// false when another instance already claimed the row.
	MarkSent(ctx context.Context, scheduleID int64, sentAt time.Time) (bool, error)
	// Release returns a claimed schedule to the unsent pool so a later tick
	// retries it.
	Release(ctx context.Context, scheduleID int64) error
	// DeleteUnsentByAppointment removes not-yet-delivered reminders for an
	// appointment. Already-sent rows are untouched. Idempotent.
	DeleteUnsentByAppointment(ctx context.Context, appointmentID int64) (int64, error)
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.NotificationSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]models.NotificationSchedule, error) {
	var schedules []models.NotificationSchedule
	err := r.db.WithContext(ctx).
		Where("sent = ? AND send_at <= ?", false, now).
		Order("send_at ASC").
		Limit(limit).
		Find(&schedules).Error
	return schedules, err
}

func (r *scheduleRepository) MarkSent(ctx context.Context, scheduleID int64, sentAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.NotificationSchedule{}).
		Where("schedule_id = ? AND sent = ?", scheduleID, false).
		Updates(map[string]any{"sent": true, "sent_at": sentAt})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *scheduleRepository) Release(ctx context.Context, scheduleID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.NotificationSchedule{}).
		Where("schedule_id = ?", scheduleID).
		Updates(map[string]any{"sent": false, "sent_at": nil}).Error
}

func (r *scheduleRepository) DeleteUnsentByAppointment(ctx context.Context, appointmentID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("appointment_id = ? AND sent = ?", appointmentID, false).
		Delete(&models.NotificationSchedule{})
	return result.RowsAffected, result.Error
}
