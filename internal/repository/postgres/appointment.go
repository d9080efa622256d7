package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_name, patient_email,
			appointment_date, appointment_time, reason, status, notes,
			payment_order_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	if appointment.CreatedAt.IsZero() {
		appointment.CreatedAt = time.Now()
		appointment.UpdatedAt = appointment.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientName,
		appointment.PatientEmail,
		appointment.AppointmentDate,
		appointment.AppointmentTime,
		appointment.Reason,
		appointment.Status,
		appointment.Notes,
		appointment.PaymentOrderID,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, doctor_id, patient_name, patient_email,
			   appointment_date, appointment_time, reason, status, notes,
			   payment_order_id, payment_id, confirmed_by,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, payment_order_id = $3,
			payment_id = $4, confirmed_by = $5, updated_at = $6
		WHERE id = $7
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Status,
		appointment.Notes,
		appointment.PaymentOrderID,
		appointment.PaymentID,
		appointment.ConfirmedBy,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM appointments
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment", nil)
	}

	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithDoctor, error) {
	query := `
		SELECT a.id, a.doctor_id, a.patient_name, a.patient_email,
			   a.appointment_date, a.appointment_time, a.reason, a.status,
			   a.notes, a.payment_order_id, a.payment_id, a.confirmed_by,
			   a.created_at, a.updated_at,
			   d.name AS doctor_name, d.specialty AS doctor_specialty
		FROM appointments a
		JOIN doctors d ON d.id = a.doctor_id
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND a.doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND a.status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.Email != "" {
		query += fmt.Sprintf(" AND a.patient_email = $%d", argCount)
		args = append(args, filters.Email)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND a.appointment_date >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND a.appointment_date <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY a.appointment_date ASC, a.appointment_time ASC"

	var appointments []*model.AppointmentWithDoctor
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) HasPendingReservation(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			AND appointment_date = $2
			AND appointment_time = $3
			AND status NOT IN ('cancelled')
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, doctorID, date, slot); err != nil {
		return false, fmt.Errorf("failed to check reservation: %w", err)
	}
	return exists, nil
}

func (r *appointmentRepository) DeleteStaleReservations(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM appointments
		WHERE status = 'pending_payment'
		AND created_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale reservations: %w", err)
	}
	return result.RowsAffected()
}
