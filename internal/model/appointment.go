package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPendingPayment AppointmentStatus = "pending_payment"
	AppointmentStatusPending        AppointmentStatus = "pending"
	AppointmentStatusConfirmed      AppointmentStatus = "confirmed"
	AppointmentStatusCompleted      AppointmentStatus = "completed"
	AppointmentStatusCancelled      AppointmentStatus = "cancelled"
)

// validTransitions is the single appointment state machine. A payment-gated
// booking starts at pending_payment and only reaches confirmed through
// signature verification; the doctor-facing flow moves pending onward.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPendingPayment: {AppointmentStatusConfirmed},
	AppointmentStatusPending:        {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:      {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// CanTransition reports whether moving from s to next is allowed.
func (s AppointmentStatus) CanTransition(next AppointmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPendingPayment, AppointmentStatusPending,
		AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	Base
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientName     string            `db:"patient_name" json:"patient_name"`
	PatientEmail    string            `db:"patient_email" json:"patient_email"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentTime string            `db:"appointment_time" json:"appointment_time"`
	Reason          string            `db:"reason" json:"reason,omitempty"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
	PaymentOrderID  *string           `db:"payment_order_id" json:"payment_order_id,omitempty"`
	PaymentID       *string           `db:"payment_id" json:"payment_id,omitempty"`
	ConfirmedBy     *string           `db:"confirmed_by" json:"confirmed_by,omitempty"`
}

// AppointmentWithDoctor carries the join-like doctor fields used by the
// appointment lists.
type AppointmentWithDoctor struct {
	Appointment
	DoctorName      string `db:"doctor_name" json:"doctor_name"`
	DoctorSpecialty string `db:"doctor_specialty" json:"doctor_specialty"`
}

type CreateBookingRequest struct {
	DoctorID     string `json:"doctor_id" binding:"required,uuid"`
	PatientName  string `json:"patient_name" binding:"required,max=200"`
	PatientEmail string `json:"patient_email" binding:"required,email"`
	Date         string `json:"date" binding:"required,futuredate"`
	Slot         string `json:"slot" binding:"required,slot"`
	Reason       string `json:"reason" binding:"max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
	Notes  *string           `json:"notes"`
}

type AppointmentFilters struct {
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	Email     string
	StartDate time.Time
	EndDate   time.Time
}
