package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrBillingNotFound = errors.New("billing record not found")

type BillingService interface {
	GetUserBilling(ctx context.Context, userID string) ([]models.Billing, error)
	GetAllBilling(ctx context.Context) ([]models.Billing, error)
	MarkPaid(ctx context.Context, billingID int64, requesterID string, isAdmin bool, paymentReference *string) (*models.Billing, error)
}

type billingService struct {
	billingRepo   repository.BillingRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewBillingService(billingRepo repository.BillingRepository, notifications NotificationService, logger *slog.Logger) BillingService {
	return &billingService{
		billingRepo:   billingRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// GetUserBilling lists an owner's payable invoices: accepted appointments
// only, voided invoices excluded.
func (s *billingService) GetUserBilling(ctx context.Context, userID string) ([]models.Billing, error) {
	return s.billingRepo.GetByUser(ctx, userID)
}

func (s *billingService) GetAllBilling(ctx context.Context) ([]models.Billing, error) {
	return s.billingRepo.GetAllWithUsers(ctx)
}

// MarkPaid settles an invoice. Owners can settle only their own invoices; a
// foreign invoice is reported as not found rather than forbidden so the
// endpoint does not leak which ids exist.
func (s *billingService) MarkPaid(ctx context.Context, billingID int64, requesterID string, isAdmin bool, paymentReference *string) (*models.Billing, error) {
	billing, err := s.billingRepo.GetByID(ctx, billingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillingNotFound
		}
		return nil, fmt.Errorf("load billing: %w", err)
	}

	if !isAdmin && billing.UserID != requesterID {
		return nil, ErrBillingNotFound
	}

	if err := s.billingRepo.MarkPaid(ctx, billingID, paymentReference); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBillingNotFound
		}
		return nil, fmt.Errorf("mark billing paid: %w", err)
	}

	billing, err = s.billingRepo.GetByID(ctx, billingID)
	if err != nil {
		return nil, fmt.Errorf("reload billing: %w", err)
	}

	if _, err := s.notifications.NotifyBillingUpdate(ctx, billing.UserID, billing.Amount, billing.Status, billing.ID); err != nil {
		s.logger.Error("billing notification failed", "billing_id", billing.ID, "error", err)
	}

	return billing, nil
}
