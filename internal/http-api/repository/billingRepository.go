package repository

import (
	"context"

	"petclinic/internal/http-api/models"

	"gorm.io/gorm"
)

type BillingRepository interface {
	Create(ctx context.Context, billing *models.Billing) error
	GetByID(ctx context.Context, id int64) (*models.Billing, error)
	GetByAppointment(ctx context.Context, appointmentID int64) ([]models.Billing, error)
	// GetByUser returns the user's non-void invoices for accepted appointments.
	GetByUser(ctx context.Context, userID string) ([]models.Billing, error)
	GetAllWithUsers(ctx context.Context) ([]models.Billing, error)
	// MarkPaid sets status, paid_at and payment_reference together.
	MarkPaid(ctx context.Context, id int64, paymentReference *string) error
	// VoidByAppointment voids every invoice of the appointment except paid ones.
	VoidByAppointment(ctx context.Context, appointmentID int64) (int64, error)
	SetPayPalOrderID(ctx context.Context, id int64, orderID string) error
	GetByPayPalOrderID(ctx context.Context, orderID string) (*models.Billing, error)
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) Create(ctx context.Context, billing *models.Billing) error {
	return r.db.WithContext(ctx).Create(billing).Error
}

func (r *billingRepository) GetByID(ctx context.Context, id int64) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.WithContext(ctx).Where("billing_id = ?", id).First(&billing).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}

func (r *billingRepository) GetByAppointment(ctx context.Context, appointmentID int64) ([]models.Billing, error) {
	var bills []models.Billing
	err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).Find(&bills).Error
	return bills, err
}

func (r *billingRepository) GetByUser(ctx context.Context, userID string) ([]models.Billing, error) {
	var bills []models.Billing
	err := r.db.WithContext(ctx).
		Joins("JOIN appointments ON appointments.appointment_id = billing.appointment_id").
		Where("billing.user_id = ?", userID).
		Where("appointments.status = ?", models.AppointmentAccepted).
		Where("billing.status <> ?", models.BillingVoid).
		Order("billing.created_at DESC").
		Find(&bills).Error
	return bills, err
}

func (r *billingRepository) GetAllWithUsers(ctx context.Context) ([]models.Billing, error) {
	var bills []models.Billing
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&bills).Error
	return bills, err
}

func (r *billingRepository) MarkPaid(ctx context.Context, id int64, paymentReference *string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Billing{}).
		Where("billing_id = ?", id).
		Updates(map[string]any{
			"status":            models.BillingPaid,
			"paid_at":           gorm.Expr("CURRENT_TIMESTAMP"),
			"payment_reference": paymentReference,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *billingRepository) VoidByAppointment(ctx context.Context, appointmentID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Billing{}).
		Where("appointment_id = ? AND status <> ?", appointmentID, models.BillingPaid).
		Update("status", models.BillingVoid)
	return result.RowsAffected, result.Error
}

func (r *billingRepository) SetPayPalOrderID(ctx context.Context, id int64, orderID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Billing{}).
		Where("billing_id = ?", id).
		Update("paypal_order_id", orderID).Error
}

func (r *billingRepository) GetByPayPalOrderID(ctx context.Context, orderID string) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.WithContext(ctx).Where("paypal_order_id = ?", orderID).First(&billing).Error
	if err != nil {
		return nil, err
	}
	return &billing, nil
}
