package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"petclinic/internal/http-api/models"
	"petclinic/internal/http-api/repository"

	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockNotificationRepo mocks repository.NotificationRepository
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepo) GetByUser(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// MockScheduleRepo mocks repository.ScheduleRepository
type MockScheduleRepo struct {
	mock.Mock
}

func (m *MockScheduleRepo) Create(ctx context.Context, schedule *models.NotificationSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepo) GetDue(ctx context.Context, now time.Time, limit int) ([]models.NotificationSchedule, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotificationSchedule), args.Error(1)
}

func (m *MockScheduleRepo) MarkSent(ctx context.Context, scheduleID int64, sentAt time.Time) (bool, error) {
	args := m.Called(ctx, scheduleID, sentAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockScheduleRepo) Release(ctx context.Context, scheduleID int64) error {
	args := m.Called(ctx, scheduleID)
	return args.Error(0)
}

func (m *MockScheduleRepo) DeleteUnsentByAppointment(ctx context.Context, appointmentID int64) (int64, error) {
	args := m.Called(ctx, appointmentID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepo mocks repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAppointmentRepo mocks repository.AppointmentRepository
type MockAppointmentRepo struct {
	mock.Mock
}

func (m *MockAppointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepo) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepo) GetByIDJoined(ctx context.Context, id int64) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepo) GetByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepo) GetAll(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockAppointmentRepo) UpdateStatus(ctx context.Context, id int64, to string, reason *string, allowedFrom ...string) (int64, error) {
	args := m.Called(ctx, id, to, reason, allowedFrom)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepo) GetBookedTimes(ctx context.Context, serviceName string, day time.Time) ([]time.Time, error) {
	args := m.Called(ctx, serviceName, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockBillingRepo mocks repository.BillingRepository
type MockBillingRepo struct {
	mock.Mock
}

func (m *MockBillingRepo) Create(ctx context.Context, billing *models.Billing) error {
	args := m.Called(ctx, billing)
	return args.Error(0)
}

func (m *MockBillingRepo) GetByID(ctx context.Context, id int64) (*models.Billing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

func (m *MockBillingRepo) GetByAppointment(ctx context.Context, appointmentID int64) ([]models.Billing, error) {
	args := m.Called(ctx, appointmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Billing), args.Error(1)
}

func (m *MockBillingRepo) GetByUser(ctx context.Context, userID string) ([]models.Billing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Billing), args.Error(1)
}

func (m *MockBillingRepo) GetAllWithUsers(ctx context.Context) ([]models.Billing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Billing), args.Error(1)
}

func (m *MockBillingRepo) MarkPaid(ctx context.Context, id int64, paymentReference *string) error {
	args := m.Called(ctx, id, paymentReference)
	return args.Error(0)
}

func (m *MockBillingRepo) VoidByAppointment(ctx context.Context, appointmentID int64) (int64, error) {
	args := m.Called(ctx, appointmentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillingRepo) SetPayPalOrderID(ctx context.Context, id int64, orderID string) error {
	args := m.Called(ctx, id, orderID)
	return args.Error(0)
}

func (m *MockBillingRepo) GetByPayPalOrderID(ctx context.Context, orderID string) (*models.Billing, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Billing), args.Error(1)
}

// MockServiceRepo mocks repository.ServiceRepository
type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) GetAll(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockServiceRepo) GetByName(ctx context.Context, name string) (*models.Service, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceRepo) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

// MockPetRepo mocks repository.PetRepository
type MockPetRepo struct {
	mock.Mock
}

func (m *MockPetRepo) Create(ctx context.Context, pet *models.Pet) error {
	args := m.Called(ctx, pet)
	return args.Error(0)
}

func (m *MockPetRepo) GetByUser(ctx context.Context, userID string) ([]models.Pet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Pet), args.Error(1)
}

func (m *MockPetRepo) GetByID(ctx context.Context, petID int64) (*models.Pet, error) {
	args := m.Called(ctx, petID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pet), args.Error(1)
}

// MockReportRepo mocks repository.ReportRepository
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) CountPetRecords(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) CountPets(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) CountAppointmentsByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) CountAppointmentsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) CountDistinctClientsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepo) AvgVisitDurationBetween(ctx context.Context, from, to time.Time) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReportRepo) PaidRevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReportRepo) PendingAppointments(ctx context.Context, limit int) ([]models.Appointment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Appointment), args.Error(1)
}

func (m *MockReportRepo) StatusBreakdown(ctx context.Context) ([]repository.StatusCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusCount), args.Error(1)
}

func (m *MockReportRepo) TopServicesByVolume(ctx context.Context, limit int) ([]repository.ServiceVolume, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ServiceVolume), args.Error(1)
}

func (m *MockReportRepo) PaidSalesByService(ctx context.Context, from, to time.Time) ([]repository.ServiceSales, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ServiceSales), args.Error(1)
}

// MockNotificationEngine mocks the NotificationService interface for callers
// that only care about its side effects.
type MockNotificationEngine struct {
	mock.Mock
}

func (m *MockNotificationEngine) DispatchImmediate(ctx context.Context, userID, notifType, message string, metadata map[string]any) (DispatchResult, error) {
	args := m.Called(ctx, userID, notifType, message, metadata)
	return args.Get(0).(DispatchResult), args.Error(1)
}

func (m *MockNotificationEngine) ScheduleFor(ctx context.Context, userID string, appointmentID *int64, notifType string, sendAt time.Time, message string, metadata map[string]any) (int64, error) {
	args := m.Called(ctx, userID, appointmentID, notifType, sendAt, message, metadata)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationEngine) ScheduleAppointmentReminders(ctx context.Context, userID string, appointmentID int64, dateTime time.Time, serviceName, petName string) []error {
	args := m.Called(ctx, userID, appointmentID, dateTime, serviceName, petName)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]error)
}

func (m *MockNotificationEngine) SchedulePaymentDueNotification(ctx context.Context, userID string, appointmentID int64, amount float64, dateTime time.Time) error {
	args := m.Called(ctx, userID, appointmentID, amount, dateTime)
	return args.Error(0)
}

func (m *MockNotificationEngine) CancelScheduledReminders(ctx context.Context, appointmentID int64) error {
	args := m.Called(ctx, appointmentID)
	return args.Error(0)
}

func (m *MockNotificationEngine) NotifyAppointmentStatus(ctx context.Context, in StatusNotificationInput) (DispatchResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(DispatchResult), args.Error(1)
}

func (m *MockNotificationEngine) NotifyBillingUpdate(ctx context.Context, userID string, amount float64, status string, invoiceID int64) (DispatchResult, error) {
	args := m.Called(ctx, userID, amount, status, invoiceID)
	return args.Get(0).(DispatchResult), args.Error(1)
}

func (m *MockNotificationEngine) NotifyPaymentRequest(ctx context.Context, userID string, amount float64, appointmentID int64) (DispatchResult, error) {
	args := m.Called(ctx, userID, amount, appointmentID)
	return args.Get(0).(DispatchResult), args.Error(1)
}

func (m *MockNotificationEngine) NotifyPetRecordAdded(ctx context.Context, in PetRecordNotificationInput) (DispatchResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(DispatchResult), args.Error(1)
}

func (m *MockNotificationEngine) GetUserNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationEngine) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// fakeChannel is a scriptable delivery channel.
type fakeChannel struct {
	name     string
	supports map[string]bool
	sendErr  error

	sent []string // recorded message bodies
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Supports(notifType string) bool { return f.supports[notifType] }

func (f *fakeChannel) Send(_ context.Context, _, _ string, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, body)
	return nil
}
