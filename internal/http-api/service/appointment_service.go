package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrForbidden           = errors.New("not allowed to modify this appointment")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
)

// CreateAppointmentInput is a booking request. Service is the name as typed
// by the user; it may or may not match a catalog row.
type CreateAppointmentInput struct {
	UserID   string
	PetID    int64
	DateTime time.Time
	Service  string
	Notes    string
}

// CreateAppointmentResult carries the booked appointment plus the outcome of
// its best-effort side effects. A warning means a reminder or invoice could
// not be set up; the booking itself still succeeded.
type CreateAppointmentResult struct {
	Appointment *models.Appointment
	Billing     *models.Billing
	Warnings    []string
}

type AppointmentService interface {
	Create(ctx context.Context, in CreateAppointmentInput) (*CreateAppointmentResult, error)
	Accept(ctx context.Context, appointmentID int64) (*models.Appointment, error)
	Complete(ctx context.Context, appointmentID int64) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID int64, reason, requesterRole, requesterID string) (*models.Appointment, error)
	GetByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	GetAll(ctx context.Context) ([]models.Appointment, error)
	UserPets(ctx context.Context, userID string) ([]models.Pet, error)
}

type appointmentService struct {
	appointmentRepo repository.AppointmentRepository
	billingRepo     repository.BillingRepository
	serviceRepo     repository.ServiceRepository
	petRepo         repository.PetRepository
	notifications   NotificationService
	logger          *slog.Logger
}

func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	billingRepo repository.BillingRepository,
	serviceRepo repository.ServiceRepository,
	petRepo repository.PetRepository,
	notifications NotificationService,
	logger *slog.Logger,
) AppointmentService {
	return &appointmentService{
		appointmentRepo: appointmentRepo,
		billingRepo:     billingRepo,
		serviceRepo:     serviceRepo,
		petRepo:         petRepo,
		notifications:   notifications,
		logger:          logger,
	}
}

// resolveService matches a free-text service name against the catalog. An
// unmatched name is a valid outcome: the appointment keeps the text with no
// catalog reference and no invoice.
func (s *appointmentService) resolveService(ctx context.Context, name string) (*models.Service, error) {
	service, err := s.serviceRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return service, nil
}

// Create books an appointment. The appointment insert is the primary effect;
// reminder scheduling and invoice creation are attempted independently and
// reported as warnings when they fail.
func (s *appointmentService) Create(ctx context.Context, in CreateAppointmentInput) (*CreateAppointmentResult, error) {
	resolved, err := s.resolveService(ctx, in.Service)
	if err != nil {
		return nil, fmt.Errorf("resolve service: %w", err)
	}

	appointment := &models.Appointment{
		UserID:   in.UserID,
		PetID:    in.PetID,
		DateTime: in.DateTime,
		Service:  in.Service,
		Notes:    in.Notes,
		Status:   models.AppointmentPending,
	}
	if resolved != nil {
		appointment.ServiceID = &resolved.ID
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	result := &CreateAppointmentResult{Appointment: appointment}

	petName := ""
	if pet, err := s.petRepo.GetByID(ctx, in.PetID); err == nil {
		petName = pet.PetName
	} else {
		s.logger.Warn("pet lookup failed while scheduling reminders", "pet_id", in.PetID, "error", err)
	}

	for _, warn := range s.notifications.ScheduleAppointmentReminders(ctx, in.UserID, appointment.ID, in.DateTime, in.Service, petName) {
		s.logger.Error("reminder scheduling failed", "appointment_id", appointment.ID, "error", warn)
		result.Warnings = append(result.Warnings, warn.Error())
	}

	if resolved != nil && resolved.Price > 0 {
		dueDate := in.DateTime
		billing := &models.Billing{
			AppointmentID: appointment.ID,
			UserID:        in.UserID,
			Amount:        resolved.Price,
			Status:        models.BillingPending,
			DueDate:       &dueDate,
		}
		if err := s.billingRepo.Create(ctx, billing); err != nil {
			s.logger.Error("billing creation failed", "appointment_id", appointment.ID, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("create billing: %v", err))
		} else {
			result.Billing = billing
			if err := s.notifications.SchedulePaymentDueNotification(ctx, in.UserID, appointment.ID, resolved.Price, in.DateTime); err != nil {
				s.logger.Error("payment due scheduling failed", "appointment_id", appointment.ID, "error", err)
				result.Warnings = append(result.Warnings, fmt.Sprintf("schedule payment due: %v", err))
			}
		}
	}

	return result, nil
}

// Accept moves a pending appointment to Accepted and notifies its owner.
func (s *appointmentService) Accept(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	return s.transition(ctx, appointmentID, models.AppointmentAccepted, nil, "admin", models.AppointmentPending)
}

// Complete marks an accepted appointment as done. No notification is sent;
// completion is an administrative bookkeeping step.
func (s *appointmentService) Complete(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	appointment, err := s.loadForTransition(ctx, appointmentID, models.AppointmentCompleted)
	if err != nil {
		return nil, err
	}

	rows, err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, models.AppointmentCompleted, nil, models.AppointmentAccepted)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}

	appointment.Status = models.AppointmentCompleted
	return appointment, nil
}

// Cancel cancels an appointment on behalf of its owner or an admin, cleaning
// up pending reminders and voiding any unpaid invoice. Cleanup steps are
// best-effort; the status change itself is the primary effect.
func (s *appointmentService) Cancel(ctx context.Context, appointmentID int64, reason, requesterRole, requesterID string) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByIDJoined(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if requesterRole != "admin" && appointment.UserID != requesterID {
		return nil, ErrForbidden
	}

	if !models.CanTransition(appointment.Status, models.AppointmentCancelled) {
		return nil, ErrInvalidTransition
	}

	rows, err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, models.AppointmentCancelled, &reason,
		models.AppointmentPending, models.AppointmentAccepted)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	if rows == 0 {
		// Raced with another status change; the guarded update refused it.
		return nil, ErrInvalidTransition
	}

	appointment.Status = models.AppointmentCancelled
	appointment.CancellationReason = &reason

	if err := s.notifications.CancelScheduledReminders(ctx, appointmentID); err != nil {
		s.logger.Error("failed to cancel scheduled reminders", "appointment_id", appointmentID, "error", err)
	}

	if _, err := s.billingRepo.VoidByAppointment(ctx, appointmentID); err != nil {
		s.logger.Error("failed to void billing", "appointment_id", appointmentID, "error", err)
	}

	initiator := "admin"
	if requesterRole != "admin" {
		initiator = "user"
	}
	s.notifyStatus(ctx, appointment, &reason, initiator)

	return appointment, nil
}

func (s *appointmentService) transition(ctx context.Context, appointmentID int64, to string, reason *string, initiator string, allowedFrom ...string) (*models.Appointment, error) {
	appointment, err := s.loadForTransition(ctx, appointmentID, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, to, reason, allowedFrom...)
	if err != nil {
		return nil, fmt.Errorf("update appointment status: %w", err)
	}
	if rows == 0 {
		return nil, ErrInvalidTransition
	}

	appointment.Status = to
	s.notifyStatus(ctx, appointment, reason, initiator)
	return appointment, nil
}

func (s *appointmentService) loadForTransition(ctx context.Context, appointmentID int64, to string) (*models.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByIDJoined(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	if !models.CanTransition(appointment.Status, to) {
		return nil, ErrInvalidTransition
	}
	return appointment, nil
}

func (s *appointmentService) notifyStatus(ctx context.Context, appointment *models.Appointment, reason *string, initiator string) {
	petName := ""
	if appointment.Pet != nil {
		petName = appointment.Pet.PetName
	}
	serviceName := appointment.Service
	if appointment.ResolvedService != nil {
		serviceName = appointment.ResolvedService.ServiceName
	}

	_, err := s.notifications.NotifyAppointmentStatus(ctx, StatusNotificationInput{
		UserID:        appointment.UserID,
		AppointmentID: appointment.ID,
		Status:        appointment.Status,
		Reason:        reason,
		Initiator:     initiator,
		PetName:       petName,
		ServiceName:   serviceName,
		DateTime:      appointment.DateTime,
	})
	if err != nil {
		s.logger.Error("status notification failed", "appointment_id", appointment.ID, "error", err)
	}
}

func (s *appointmentService) GetByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.appointmentRepo.GetByUser(ctx, userID)
}

func (s *appointmentService) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return s.appointmentRepo.GetAll(ctx)
}

func (s *appointmentService) UserPets(ctx context.Context, userID string) ([]models.Pet, error) {
	return s.petRepo.GetByUser(ctx, userID)
}
