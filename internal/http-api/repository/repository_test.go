package repository

import (
	"context"
	"testing"
	"time"

	"petclinic/internal/http-api/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestVoidByAppointment_SkipsPaidInvoices(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	// one pending invoice voided, the paid one untouched
	mock.ExpectExec(`UPDATE "billing" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	voided, err := repo.VoidByAppointment(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), voided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_MissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBillingRepository(db)

	mock.ExpectExec(`UPDATE "billing" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPaid(context.Background(), 99, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMarkSent_ClaimsOnlyUnsentRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db)

	mock.ExpectExec(`UPDATE "notification_schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	claimed, err := repo.MarkSent(context.Background(), 7, time.Now())
	assert.NoError(t, err)
	assert.True(t, claimed)
}

func TestMarkSent_LostClaim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db)

	// another poller already flipped sent to true
	mock.ExpectExec(`UPDATE "notification_schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := repo.MarkSent(context.Background(), 7, time.Now())
	assert.NoError(t, err)
	assert.False(t, claimed)
}

func TestRelease_ReturnsRowToUnsentPool(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db)

	mock.ExpectExec(`UPDATE "notification_schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Release(context.Background(), 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaidRevenueBetween_SumsPaidInvoicesOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	from := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "billing" WHERE status = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(15000.0))

	total, err := repo.PaidRevenueBetween(context.Background(), from, from.AddDate(0, 1, 0))
	assert.NoError(t, err)
	assert.Equal(t, 15000.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusBreakdown_GroupsByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow(models.AppointmentPending, int64(3)).
		AddRow(models.AppointmentCompleted, int64(27))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS total FROM "appointments" GROUP BY`).
		WillReturnRows(rows)

	breakdown, err := repo.StatusBreakdown(context.Background())
	assert.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, models.AppointmentPending, breakdown[0].Status)
	assert.Equal(t, int64(27), breakdown[1].Total)
}

func TestAvgVisitDurationBetween_EmptyWindowIsZero(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	from := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT AVG\(services\.duration_minutes\) FROM "appointments" LEFT JOIN services`).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	avg, err := repo.AvgVisitDurationBetween(context.Background(), from, from.AddDate(0, 0, 30))
	assert.NoError(t, err)
	assert.Equal(t, 0.0, avg)
}

func TestMarkAsRead_GuardsOwnershipAndState(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec(`UPDATE "notifications" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkAsRead(context.Background(), "user-1", 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetDue_FiltersAndLimits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db)

	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"schedule_id", "user_id", "type", "payload", "send_at", "sent"}).
		AddRow(int64(1), "user-1", models.TypePaymentDue, `{"message":"due"}`, now.Add(-time.Minute), false)

	mock.ExpectQuery(`SELECT \* FROM "notification_schedules" WHERE sent = \$1 AND send_at <= \$2 ORDER BY send_at ASC`).
		WillReturnRows(rows)

	due, err := repo.GetDue(context.Background(), now, 50)
	assert.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "due", due[0].DecodedPayload().Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
