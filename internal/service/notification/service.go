package notification

import (
	"context"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/email"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
)

type Service interface {
	BookingConfirmed(ctx context.Context, apt *model.Appointment, doctorName string)
}

// service sends best-effort patient email. Delivery failures are logged and
// swallowed; a confirmed booking never rolls back because SMTP was down.
type service struct {
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(emailSvc email.Service, logger *logger.Logger) Service {
	return &service{emailSvc: emailSvc, logger: logger}
}

func (s *service) BookingConfirmed(ctx context.Context, apt *model.Appointment, doctorName string) {
	if err := s.emailSvc.SendBookingConfirmation(ctx, apt, doctorName); err != nil {
		s.logger.Error(err, "failed to send booking confirmation",
			"appointment_id", apt.ID, "patient_email", apt.PatientEmail)
	}
}
