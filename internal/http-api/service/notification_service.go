package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"
	"petclinic/internal/notify"
)

var (
	// ErrMissingScheduleFields is returned when a schedule request lacks a
	// user, message, or send-at instant.
	ErrMissingScheduleFields = errors.New("missing required schedule fields")
)

// Reminder offsets before an appointment.
const (
	reminderOffset24h = 24 * time.Hour
	reminderOffset3h  = 3 * time.Hour
)

// DeliveryOutcome records one channel's best-effort delivery attempt. A nil
// Err means the channel accepted the message; Skipped means the channel was
// not attempted (unsupported type or no destination on file).
type DeliveryOutcome struct {
	Channel string
	Skipped bool
	Err     error
}

// DispatchResult is the outcome of an immediate dispatch: the durably created
// notification plus the per-channel delivery attempts. Delivery failures
// never fail the dispatch itself; callers that care can inspect them.
type DispatchResult struct {
	NotificationID int64
	Delivery       []DeliveryOutcome
}

// StatusNotificationInput describes an appointment status change to announce.
type StatusNotificationInput struct {
	UserID        string
	AppointmentID int64
	Status        string
	Reason        *string
	Initiator     string // "user", "admin", or "system"
	PetName       string
	ServiceName   string
	DateTime      time.Time
}

// PetRecordNotificationInput describes a newly added medical record.
type PetRecordNotificationInput struct {
	UserID      string
	PetID       int64
	PetName     string
	ServiceType string
	RecordID    int64
	RecordData  map[string]any
}

type NotificationService interface {
	DispatchImmediate(ctx context.Context, userID, notifType, message string, metadata map[string]any) (DispatchResult, error)
	ScheduleFor(ctx context.Context, userID string, appointmentID *int64, notifType string, sendAt time.Time, message string, metadata map[string]any) (int64, error)
	ScheduleAppointmentReminders(ctx context.Context, userID string, appointmentID int64, dateTime time.Time, serviceName, petName string) []error
	SchedulePaymentDueNotification(ctx context.Context, userID string, appointmentID int64, amount float64, dateTime time.Time) error
	CancelScheduledReminders(ctx context.Context, appointmentID int64) error
	NotifyAppointmentStatus(ctx context.Context, in StatusNotificationInput) (DispatchResult, error)
	NotifyBillingUpdate(ctx context.Context, userID string, amount float64, status string, invoiceID int64) (DispatchResult, error)
	NotifyPaymentRequest(ctx context.Context, userID string, amount float64, appointmentID int64) (DispatchResult, error)
	NotifyPetRecordAdded(ctx context.Context, in PetRecordNotificationInput) (DispatchResult, error)

	GetUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
}

type notificationService struct {
	repo         repository.NotificationRepository
	scheduleRepo repository.ScheduleRepository
	userRepo     repository.UserRepository
	channels     []notify.Channel
	now          func() time.Time
	logger       *slog.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	scheduleRepo repository.ScheduleRepository,
	userRepo repository.UserRepository,
	channels []notify.Channel,
	now func() time.Time,
	logger *slog.Logger,
) NotificationService {
	if now == nil {
		now = time.Now
	}
	return &notificationService{
		repo:         repo,
		scheduleRepo: scheduleRepo,
		userRepo:     userRepo,
		channels:     channels,
		now:          now,
		logger:       logger,
	}
}

// DispatchImmediate persists the notification and then fans it out to every
// configured channel whose allow-list covers the type. The notification row
// is the primary effect; channel failures are collected, logged, and
// swallowed.
func (s *notificationService) DispatchImmediate(ctx context.Context, userID, notifType, message string, metadata map[string]any) (DispatchResult, error) {
	if notifType == "" {
		notifType = models.TypeInfo
	}

	notification := &models.Notification{
		UserID:  userID,
		Message: models.EncodeEnvelope(message, notifType, metadata),
		Status:  models.NotificationUnread,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return DispatchResult{}, fmt.Errorf("create notification: %w", err)
	}

	result := DispatchResult{NotificationID: notification.ID}
	for _, channel := range s.channels {
		result.Delivery = append(result.Delivery, s.deliver(ctx, channel, userID, notifType, message))
	}
	return result, nil
}

func (s *notificationService) deliver(ctx context.Context, channel notify.Channel, userID, notifType, message string) DeliveryOutcome {
	outcome := DeliveryOutcome{Channel: channel.Name()}

	if !channel.Supports(notifType) {
		outcome.Skipped = true
		return outcome
	}

	destination, err := s.destinationFor(ctx, channel.Name(), userID)
	if err != nil || destination == "" {
		if err != nil {
			s.logger.Warn("destination lookup failed", "channel", channel.Name(), "user_id", userID, "error", err)
		}
		outcome.Skipped = true
		return outcome
	}

	if err := channel.Send(ctx, destination, subjectForType(notifType), message); err != nil {
		s.logger.Error("notification delivery failed", "channel", channel.Name(), "user_id", userID, "type", notifType, "error", err)
		outcome.Err = err
	}
	return outcome
}

func (s *notificationService) destinationFor(ctx context.Context, channelName, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	switch channelName {
	case "email":
		return user.Email, nil
	case "sms":
		if user.PhoneNumber == nil {
			return "", nil
		}
		return *user.PhoneNumber, nil
	default:
		return "", nil
	}
}

// ScheduleFor persists a future-dated reminder. The poller materializes it
// into a Notification once send_at passes.
func (s *notificationService) ScheduleFor(ctx context.Context, userID string, appointmentID *int64, notifType string, sendAt time.Time, message string, metadata map[string]any) (int64, error) {
	if userID == "" || message == "" || sendAt.IsZero() {
		return 0, ErrMissingScheduleFields
	}
	if notifType == "" {
		notifType = "reminder"
	}

	schedule := &models.NotificationSchedule{
		UserID:        userID,
		AppointmentID: appointmentID,
		Type:          notifType,
		Payload:       models.EncodeSchedulePayload(message, metadata),
		SendAt:        sendAt,
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return 0, fmt.Errorf("create notification schedule: %w", err)
	}
	return schedule.ID, nil
}

// ScheduleAppointmentReminders books the 24-hour and 3-hour reminders for an
// appointment, skipping any reminder whose instant has already passed. An
// appointment less than 3 hours out gets no reminders at all. Failures are
// returned as warnings; each reminder is attempted independently.
func (s *notificationService) ScheduleAppointmentReminders(ctx context.Context, userID string, appointmentID int64, dateTime time.Time, serviceName, petName string) []error {
	if dateTime.IsZero() {
		return nil
	}

	petLabel := petName
	if petLabel == "" {
		petLabel = "your pet"
	}
	message := fmt.Sprintf("Reminder: %s for %s on %s.", serviceName, petLabel, formatDateTime(dateTime))
	metadata := map[string]any{
		"appointment_id":   appointmentID,
		"service_name":     serviceName,
		"pet_name":         petName,
		"appointment_date": dateTime.Format(time.RFC3339),
	}

	reminders := []struct {
		offset    time.Duration
		notifType string
	}{
		{reminderOffset24h, models.TypeAppointmentReminder24h},
		{reminderOffset3h, models.TypeAppointmentReminder3h},
	}

	var warnings []error
	for _, reminder := range reminders {
		sendAt := dateTime.Add(-reminder.offset)
		if !sendAt.After(s.now()) {
			continue
		}
		if _, err := s.ScheduleFor(ctx, userID, &appointmentID, reminder.notifType, sendAt, message, metadata); err != nil {
			warnings = append(warnings, fmt.Errorf("schedule %s: %w", reminder.notifType, err))
		}
	}
	return warnings
}

// SchedulePaymentDueNotification schedules a payment_due reminder for the
// appointment's own date/time. An appointment already in the past gets the
// notification immediately instead.
func (s *notificationService) SchedulePaymentDueNotification(ctx context.Context, userID string, appointmentID int64, amount float64, dateTime time.Time) error {
	if dateTime.IsZero() || !dateTime.After(s.now()) {
		_, err := s.NotifyPaymentRequest(ctx, userID, amount, appointmentID)
		return err
	}

	message := fmt.Sprintf("Payment of ₱%s is now due for your appointment.", formatAmount(amount))
	metadata := map[string]any{"appointment_id": appointmentID, "amount": amount}
	_, err := s.ScheduleFor(ctx, userID, &appointmentID, models.TypePaymentDue, dateTime, message, metadata)
	return err
}

// CancelScheduledReminders removes every unsent reminder tied to the
// appointment. No-op if none exist.
func (s *notificationService) CancelScheduledReminders(ctx context.Context, appointmentID int64) error {
	_, err := s.scheduleRepo.DeleteUnsentByAppointment(ctx, appointmentID)
	return err
}

// NotifyAppointmentStatus announces a status change with wording that depends
// on who initiated it. The cancellation reason is echoed only when the clinic
// cancelled, never back to a user describing their own cancellation.
func (s *notificationService) NotifyAppointmentStatus(ctx context.Context, in StatusNotificationInput) (DispatchResult, error) {
	notifType := models.TypeAppointmentUpdate
	switch in.Status {
	case models.AppointmentAccepted:
		notifType = models.TypeAppointmentAccepted
	case models.AppointmentCancelled:
		notifType = models.TypeAppointmentCancelled
	}

	label := describeAppointment(in.PetName, in.ServiceName)
	dateText := ""
	if !in.DateTime.IsZero() {
		dateText = " on " + formatDateTime(in.DateTime)
	}

	var message string
	switch in.Status {
	case models.AppointmentAccepted:
		message = fmt.Sprintf("Your %s%s has been accepted.", label, dateText)
	case models.AppointmentCancelled:
		if in.Initiator == "user" {
			message = fmt.Sprintf("You cancelled %s%s.", label, dateText)
		} else {
			message = fmt.Sprintf("Your %s%s was cancelled by the clinic.", label, dateText)
			if in.Reason != nil && *in.Reason != "" {
				message += fmt.Sprintf(" Reason: %s.", *in.Reason)
			}
		}
	default:
		message = fmt.Sprintf("Appointment status updated to %s for %s%s.", in.Status, label, dateText)
	}

	metadata := map[string]any{
		"appointment_id": in.AppointmentID,
		"status":         in.Status,
		"pet_name":       in.PetName,
		"service_name":   in.ServiceName,
	}
	if in.Reason != nil && *in.Reason != "" && in.Initiator != "user" {
		metadata["reason"] = *in.Reason
	}

	return s.DispatchImmediate(ctx, in.UserID, notifType, message, metadata)
}

func (s *notificationService) NotifyBillingUpdate(ctx context.Context, userID string, amount float64, status string, invoiceID int64) (DispatchResult, error) {
	var message string
	switch status {
	case models.BillingPaid:
		message = fmt.Sprintf("Payment received for ₱%s. Thank you!", formatAmount(amount))
	case models.BillingOverdue:
		message = fmt.Sprintf("Payment overdue for ₱%s. Please settle soon.", formatAmount(amount))
	default:
		message = fmt.Sprintf("Invoice updated: ₱%s is %s.", formatAmount(amount), status)
	}

	metadata := map[string]any{"invoice_id": invoiceID, "amount": amount, "status": status}
	return s.DispatchImmediate(ctx, userID, models.TypeBilling, message, metadata)
}

func (s *notificationService) NotifyPaymentRequest(ctx context.Context, userID string, amount float64, appointmentID int64) (DispatchResult, error) {
	message := fmt.Sprintf("Payment of ₱%s is now due for your appointment.", formatAmount(amount))
	metadata := map[string]any{"appointment_id": appointmentID, "amount": amount}
	return s.DispatchImmediate(ctx, userID, models.TypePaymentDue, message, metadata)
}

func (s *notificationService) NotifyPetRecordAdded(ctx context.Context, in PetRecordNotificationInput) (DispatchResult, error) {
	if in.UserID == "" {
		return DispatchResult{}, nil
	}

	petLabel := in.PetName
	if petLabel == "" {
		petLabel = "your pet"
	}
	serviceLabel := in.ServiceType
	if serviceLabel == "" {
		serviceLabel = "new record"
	}
	message := fmt.Sprintf("A new %s record was added for %s.%s", serviceLabel, petLabel, summarizeRecordData(in.RecordData))

	recordData := in.RecordData
	if recordData == nil {
		recordData = map[string]any{}
	}
	metadata := map[string]any{
		"pet_id":       in.PetID,
		"pet_name":     in.PetName,
		"service_type": in.ServiceType,
		"record_id":    in.RecordID,
		"record_data":  recordData,
	}
	return s.DispatchImmediate(ctx, in.UserID, models.TypePetRecordAdded, message, metadata)
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.repo.GetByUser(ctx, userID, unreadOnly)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	return s.repo.MarkAsRead(ctx, userID, notificationID)
}

// formatDateTime renders timestamps the way they appear in user-facing
// messages, e.g. "Wed, Oct 8, 03:00 PM".
func formatDateTime(t time.Time) string {
	return t.Format("Mon, Jan 2, 03:04 PM")
}

// formatAmount renders a peso amount without trailing zeros (500 not 500.00).
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func describeAppointment(petName, serviceName string) string {
	switch {
	case serviceName != "" && petName != "":
		return fmt.Sprintf("%s for %s", serviceName, petName)
	case serviceName != "":
		return serviceName
	case petName != "":
		return fmt.Sprintf("your pet %s", petName)
	default:
		return "your appointment"
	}
}

// summarizeRecordData picks at most two notable fields out of a record
// document for the notification text.
func summarizeRecordData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}

	summaryFields := []struct {
		key   string
		label string
	}{
		{"diagnosis", "Diagnosis"},
		{"status", "Status"},
		{"medication", "Medication"},
		{"notes", "Notes"},
		{"vaccineType", "Vaccine"},
		{"groomType", "Grooming"},
		{"reminderType", "Reminder"},
	}

	var parts []string
	for _, field := range summaryFields {
		if value, ok := data[field.key]; ok && value != nil && value != "" {
			parts = append(parts, fmt.Sprintf("%s: %v", field.label, value))
		}
		if len(parts) == 2 {
			break
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " | ")
}

func subjectForType(notifType string) string {
	switch notifType {
	case models.TypeAppointmentReminder24h, models.TypeAppointmentReminder3h:
		return "Appointment Reminder"
	case models.TypeAppointmentAccepted:
		return "Appointment Accepted"
	case models.TypeAppointmentCancelled:
		return "Appointment Cancelled"
	case models.TypePaymentDue:
		return "Payment Due"
	case models.TypePetRecordAdded:
		return "Pet Record Update"
	default:
		return "Notification"
	}
}
