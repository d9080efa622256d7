package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
)

// All repository interfaces in one file
type (
	DoctorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		ListAvailable(ctx context.Context) ([]*model.Doctor, error)
		UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithDoctor, error)
		HasPendingReservation(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (bool, error)
		DeleteStaleReservations(ctx context.Context, olderThan time.Time) (int64, error)
	}

	ProductRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
		List(ctx context.Context, filters *model.ProductFilters) ([]*model.Product, error)
	}

	CartRepository interface {
		SetItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
		Lines(ctx context.Context, cartID uuid.UUID) ([]*model.CartLine, error)
	}

	ChatRepository interface {
		CreateConversation(ctx context.Context, conv *model.Conversation) error
		TouchConversation(ctx context.Context, id uuid.UUID, preview string) error
		ListConversations(ctx context.Context) ([]*model.Conversation, error)
		AppendMessage(ctx context.Context, msg *model.StoredChatMessage) error
		Messages(ctx context.Context, conversationID uuid.UUID) ([]*model.StoredChatMessage, error)
	}

	UserRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error
	}
)
