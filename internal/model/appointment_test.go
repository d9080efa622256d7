package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusPendingPayment, AppointmentStatusConfirmed, true},
		{AppointmentStatusPendingPayment, AppointmentStatusCompleted, false},
		{AppointmentStatusPendingPayment, AppointmentStatusPending, false},
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusPendingPayment, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestAppointmentStatusValid(t *testing.T) {
	for _, s := range []AppointmentStatus{
		AppointmentStatusPendingPayment, AppointmentStatusPending,
		AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, AppointmentStatus("scheduled").Valid())
	assert.False(t, AppointmentStatus("").Valid())
}
