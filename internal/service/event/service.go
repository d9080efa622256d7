package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
)

// Service writes domain events to the outbox table. The worker drains the
// table and publishes to the broker, so emitting here never blocks a request
// on Redis.
type Service struct {
	outboxRepo repository.OutboxRepository
	logger     *logger.Logger
}

func NewService(outboxRepo repository.OutboxRepository, logger *logger.Logger) *Service {
	return &Service{outboxRepo: outboxRepo, logger: logger}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   data,
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

// EmitAppointment is Emit for appointment lifecycle events; failures are
// logged, not returned, so event plumbing never fails a booking.
func (s *Service) EmitAppointment(ctx context.Context, eventType string, apt *model.Appointment) {
	if err := s.Emit(ctx, eventType, apt); err != nil {
		s.logger.Error(err, "failed to emit appointment event", "event_type", eventType, "appointment_id", apt.ID)
	}
}
