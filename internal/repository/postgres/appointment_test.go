package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestAppointmentCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	apt := &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		DoctorID:        uuid.New(),
		PatientName:     "Asha Verma",
		PatientEmail:    "asha@example.com",
		AppointmentDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "10:00 AM",
		Status:          model.AppointmentStatusPendingPayment,
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(apt.ID, apt.DoctorID, apt.PatientName, apt.PatientEmail,
			apt.AppointmentDate, apt.AppointmentTime, apt.Reason, apt.Status,
			apt.Notes, apt.PaymentOrderID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), apt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), id)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentHasPendingReservation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	doctorID := uuid.New()
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(doctorID, date, "10:00 AM").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	held, err := repo.HasPendingReservation(context.Background(), doctorID, date, "10:00 AM")
	require.NoError(t, err)
	assert.True(t, held)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentDeleteMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM appointments").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestDeleteStaleReservations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	cutoff := time.Now().Add(-30 * time.Minute)
	mock.ExpectExec("DELETE FROM appointments").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	swept, err := repo.DeleteStaleReservations(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorUpdateAvailabilityNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDoctorRepository(db)
	id := uuid.New()

	mock.ExpectExec("UPDATE doctors").
		WithArgs(false, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAvailability(context.Background(), id, false)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
