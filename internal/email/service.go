package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
)

type Service interface {
	SendBookingConfirmation(ctx context.Context, apt *model.Appointment, doctorName string) error
}

type service struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *service) SendBookingConfirmation(ctx context.Context, apt *model.Appointment, doctorName string) error {
	subject := "Your AyushGyan consultation is confirmed"
	body := fmt.Sprintf(
		"<p>Namaste %s,</p>"+
			"<p>Your consultation with <b>%s</b> is confirmed for <b>%s</b> at <b>%s</b>.</p>"+
			"<p>You will receive a joining link before the session begins.</p>"+
			"<p>Wishing you good health,<br>Team AyushGyan</p>",
		apt.PatientName, doctorName, apt.AppointmentDate.Format("02 Jan 2006"), apt.AppointmentTime)
	return s.send(apt.PatientEmail, subject, body)
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
