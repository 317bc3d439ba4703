package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"
	"petclinic/internal/payments/paypal"

	"gorm.io/gorm"
)

var ErrPayPalNotConfigured = errors.New("paypal is not configured")

// CreateOrderResult is what a client needs to send the buyer through PayPal
// approval.
type CreateOrderResult struct {
	OrderID     string
	ApprovalURL string
}

// CaptureResult reports a finished capture. Billing is nil when the order
// could not be correlated with any invoice; the capture itself still
// succeeded on PayPal's side.
type CaptureResult struct {
	OrderID   string
	CaptureID string
	Status    string
	Billing   *models.Billing
}

type PaymentService interface {
	CreateOrder(ctx context.Context, billingID int64, requesterID string, isAdmin bool) (*CreateOrderResult, error)
	CaptureOrder(ctx context.Context, orderID string, billingID *int64) (*CaptureResult, error)
}

type paymentService struct {
	paypal        *paypal.Client
	billingRepo   repository.BillingRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewPaymentService(client *paypal.Client, billingRepo repository.BillingRepository, notifications NotificationService, logger *slog.Logger) PaymentService {
	return &paymentService{
		paypal:        client,
		billingRepo:   billingRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// CreateOrder opens a PayPal order for an invoice. The billing id travels as
// the order's custom_id and is also stored on the billing row so the capture
// step can find its way back even when PayPal omits the echo.
func (s *paymentService) CreateOrder(ctx context.Context, billingID int64, requesterID string, isAdmin bool) (*CreateOrderResult, error) {
	if s.paypal == nil {
		return nil, ErrPayPalNotConfigured
	}

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

	order, err := s.paypal.CreateOrder(ctx, billing.Amount, strconv.FormatInt(billingID, 10))
	if err != nil {
		return nil, fmt.Errorf("create paypal order: %w", err)
	}

	if err := s.billingRepo.SetPayPalOrderID(ctx, billingID, order.ID); err != nil {
		s.logger.Error("failed to store paypal order id", "billing_id", billingID, "order_id", order.ID, "error", err)
	}

	return &CreateOrderResult{OrderID: order.ID, ApprovalURL: order.ApprovalURL()}, nil
}

// CaptureOrder captures an approved order and settles the matching invoice.
// The invoice is resolved from the order's custom_id first, then the caller's
// hint, then the stored order-id mapping. A capture with no resolvable
// invoice is logged and returned without a billing row.
func (s *paymentService) CaptureOrder(ctx context.Context, orderID string, billingID *int64) (*CaptureResult, error) {
	if s.paypal == nil {
		return nil, ErrPayPalNotConfigured
	}

	order, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("capture paypal order: %w", err)
	}

	result := &CaptureResult{
		OrderID:   order.ID,
		CaptureID: order.CaptureID(),
		Status:    order.Status,
	}

	billing, err := s.resolveBilling(ctx, order, billingID)
	if err != nil {
		return nil, err
	}
	if billing == nil {
		s.logger.Warn("captured paypal order matches no billing record", "order_id", orderID)
		return result, nil
	}

	reference := result.CaptureID
	if err := s.billingRepo.MarkPaid(ctx, billing.ID, &reference); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already settled, e.g. a repeated capture callback.
			s.logger.Warn("billing already settled", "billing_id", billing.ID, "order_id", orderID)
		} else {
			return nil, fmt.Errorf("mark billing paid: %w", err)
		}
	}

	if updated, err := s.billingRepo.GetByID(ctx, billing.ID); err == nil {
		billing = updated
	}
	result.Billing = billing

	if _, err := s.notifications.NotifyBillingUpdate(ctx, billing.UserID, billing.Amount, models.BillingPaid, billing.ID); err != nil {
		s.logger.Error("billing notification failed", "billing_id", billing.ID, "error", err)
	}

	return result, nil
}

func (s *paymentService) resolveBilling(ctx context.Context, order *paypal.Order, hint *int64) (*models.Billing, error) {
	if customID := order.CustomID(); customID != "" {
		if id, err := strconv.ParseInt(customID, 10, 64); err == nil {
			return s.billingByID(ctx, id)
		}
	}

	if hint != nil {
		return s.billingByID(ctx, *hint)
	}

	billing, err := s.billingRepo.GetByPayPalOrderID(ctx, order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup billing by order id: %w", err)
	}
	return billing, nil
}

func (s *paymentService) billingByID(ctx context.Context, id int64) (*models.Billing, error) {
	billing, err := s.billingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup billing: %w", err)
	}
	return billing, nil
}
