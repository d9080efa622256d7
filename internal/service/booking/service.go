package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/event"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/notification"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/payment"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
)

// Service orchestrates the paid booking flow: reserve a slot, register a
// processor order, and either confirm on a verified signature or release the
// reservation. The slot is held from the moment of reservation, so two
// checkouts can never race for the same slot.
type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	provider     payment.Provider
	eventSvc     *event.Service
	notifSvc     notification.Service
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	provider payment.Provider,
	eventSvc *event.Service,
	notifSvc notification.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		provider:     provider,
		eventSvc:     eventSvc,
		notifSvc:     notifSvc,
		metrics:      m,
		logger:       log,
	}
}

// BookingResult pairs the reservation with the order the checkout widget
// needs to open.
type BookingResult struct {
	Appointment *model.Appointment  `json:"appointment"`
	Order       *model.PaymentOrder `json:"order"`
}

// CreateBooking reserves a slot and creates the processor order. The
// reservation is deleted again if the order cannot be created.
func (s *Service) CreateBooking(ctx context.Context, req *model.CreateBookingRequest) (*BookingResult, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid doctor id", err)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date", err)
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsAvailable {
		return nil, apperrors.Conflict("doctor is not accepting appointments", nil)
	}

	held, err := s.appointments.HasPendingReservation(ctx, doctorID, date, req.Slot)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if held {
		return nil, apperrors.Conflict("slot is no longer available", nil)
	}

	now := time.Now()
	apt := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DoctorID:        doctorID,
		PatientName:     req.PatientName,
		PatientEmail:    req.PatientEmail,
		AppointmentDate: date,
		AppointmentTime: req.Slot,
		Reason:          req.Reason,
		Status:          model.AppointmentStatusPendingPayment,
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to reserve slot: %w", err)
	}
	s.metrics.BookingsCreated.Inc()

	order, err := s.provider.CreateOrder(ctx, &model.CreateOrderRequest{
		Amount:  doctor.ConsultationFee,
		Receipt: "appt_" + apt.ID.String(),
		Notes: map[string]string{
			"appointment_id": apt.ID.String(),
			"doctor_id":      doctorID.String(),
			"date":           req.Date,
			"slot":           req.Slot,
		},
	})
	if err != nil {
		s.compensate(ctx, apt.ID, "order creation failed")
		return nil, err
	}

	apt.PaymentOrderID = &order.OrderID
	apt.UpdatedAt = time.Now()
	if err := s.appointments.Update(ctx, apt); err != nil {
		s.compensate(ctx, apt.ID, "failed to record order id")
		return nil, fmt.Errorf("failed to attach order to reservation: %w", err)
	}

	s.eventSvc.EmitAppointment(ctx, model.EventAppointmentCreated, apt)
	return &BookingResult{Appointment: apt, Order: order}, nil
}

// VerifyPayment checks the checkout signature and confirms the reservation.
// Replaying a verification for an already confirmed appointment succeeds
// without touching the row again.
func (s *Service) VerifyPayment(ctx context.Context, req *model.VerifyPaymentRequest) (*model.VerifyPaymentResponse, error) {
	aptID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment id", err)
	}

	apt, err := s.appointments.Get(ctx, aptID)
	if err != nil {
		return nil, err
	}

	if apt.Status == model.AppointmentStatusConfirmed {
		if apt.PaymentID != nil && *apt.PaymentID == req.RazorpayPaymentID {
			return &model.VerifyPaymentResponse{Success: true, Appointment: apt}, nil
		}
		return nil, apperrors.Conflict("appointment already confirmed", nil)
	}
	if apt.Status != model.AppointmentStatusPendingPayment {
		return nil, apperrors.Conflict(
			fmt.Sprintf("appointment is %s, not awaiting payment", apt.Status), nil)
	}
	if apt.PaymentOrderID == nil || *apt.PaymentOrderID != req.RazorpayOrderID {
		return nil, apperrors.BadRequest("order does not belong to this appointment", nil)
	}

	if !s.provider.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		s.compensate(ctx, apt.ID, "signature verification failed")
		return &model.VerifyPaymentResponse{Success: false}, nil
	}

	confirmedBy := "payment"
	apt.Status = model.AppointmentStatusConfirmed
	apt.PaymentID = &req.RazorpayPaymentID
	apt.ConfirmedBy = &confirmedBy
	apt.UpdatedAt = time.Now()
	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to confirm appointment: %w", err)
	}

	s.eventSvc.EmitAppointment(ctx, model.EventAppointmentConfirmed, apt)
	if doctor, derr := s.doctors.Get(ctx, apt.DoctorID); derr == nil {
		s.notifSvc.BookingConfirmed(ctx, apt, doctor.Name)
	}

	return &model.VerifyPaymentResponse{Success: true, Appointment: apt}, nil
}

// PaymentFailure releases a reservation after the checkout was dismissed or
// the payment failed client-side. Calling it twice, or for a reservation the
// reconciler already swept, is not an error.
func (s *Service) PaymentFailure(ctx context.Context, aptID uuid.UUID) error {
	apt, err := s.appointments.Get(ctx, aptID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound {
			return nil
		}
		return err
	}
	if apt.Status != model.AppointmentStatusPendingPayment {
		return nil
	}

	s.compensate(ctx, aptID, "checkout dismissed")
	s.eventSvc.EmitAppointment(ctx, model.EventAppointmentReleased, apt)
	return nil
}

func (s *Service) compensate(ctx context.Context, aptID uuid.UUID, reason string) {
	if err := s.appointments.Delete(ctx, aptID); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrNotFound {
			return
		}
		s.logger.Error(err, "failed to release reservation", "appointment_id", aptID, "reason", reason)
		return
	}
	s.metrics.BookingsCompensated.Inc()
	s.logger.Info("released reservation", "appointment_id", aptID, "reason", reason)
}
