package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/event"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

// Consultations run in fixed half-hour slots: a morning block and an
// afternoon block. Labels match what the booking form shows.
var Slots = []string{
	"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
	"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM",
}

// ValidSlot reports whether label is one of the bookable slot labels.
func ValidSlot(label string) bool {
	for _, s := range Slots {
		if s == label {
			return true
		}
	}
	return false
}

type Service struct {
	repo     repository.AppointmentRepository
	eventSvc *event.Service
}

func NewService(repo repository.AppointmentRepository, eventSvc *event.Service) *Service {
	return &Service{repo: repo, eventSvc: eventSvc}
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithDoctor, error) {
	return s.repo.List(ctx, filters)
}

// AvailableSlots returns the slot labels still open for a doctor on a date.
// A slot is taken while any row holds it, pending_payment included.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	taken, err := s.repo.List(ctx, &model.AppointmentFilters{
		DoctorID:  doctorID,
		StartDate: date,
		EndDate:   date,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	used := make(map[string]bool, len(taken))
	for _, apt := range taken {
		if apt.Status != model.AppointmentStatusCancelled {
			used[apt.AppointmentTime] = true
		}
	}

	open := make([]string, 0, len(Slots))
	for _, slot := range Slots {
		if !used[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}

// UpdateStatus moves an appointment through the state machine. Reservations
// awaiting payment only become confirmed through payment verification; a
// doctor can confirm pending appointments directly.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	if !req.Status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown status %q", req.Status), nil)
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// pending_payment only leaves through signature verification
	if req.Status == model.AppointmentStatusConfirmed && apt.Status == model.AppointmentStatusPendingPayment {
		return nil, apperrors.Conflict("appointments awaiting payment are confirmed through payment verification", nil)
	}
	if !apt.Status.CanTransition(req.Status) {
		return nil, apperrors.Conflict(
			fmt.Sprintf("cannot move appointment from %s to %s", apt.Status, req.Status), nil)
	}

	apt.Status = req.Status
	if req.Status == model.AppointmentStatusConfirmed {
		confirmedBy := "doctor"
		apt.ConfirmedBy = &confirmedBy
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	apt.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	if s.eventSvc != nil {
		switch req.Status {
		case model.AppointmentStatusConfirmed:
			s.eventSvc.EmitAppointment(ctx, model.EventAppointmentConfirmed, apt)
		case model.AppointmentStatusCancelled:
			s.eventSvc.EmitAppointment(ctx, model.EventAppointmentCancelled, apt)
		}
	}
	return apt, nil
}
