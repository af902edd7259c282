package ports

import (
	"context"
	"time"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateEventInput is the DTO passed from the front end to EventService.
type CreateEventInput struct {
	ContractID       string
	Name             string
	Start            time.Time
	End              time.Time
	Location         string
	Attendees        int
	Notes            string
	SupportContactID string // optional
}

// UpdateEventInput changes the non-nil fields of an event.
type UpdateEventInput struct {
	ID        string
	Name      *string
	Start     *time.Time
	End       *time.Time
	Location  *string
	Attendees *int
	Notes     *string
}

// EventService defines use-case operations for scheduled events.
type EventService interface {
	CreateEvent(ctx context.Context, p domain.Principal, in CreateEventInput) (*domain.Event, error)
	UpdateEvent(ctx context.Context, p domain.Principal, in UpdateEventInput) (*domain.Event, error)
	AssignSupport(ctx context.Context, p domain.Principal, eventID, supportID string) (*domain.Event, error)
	ListMyEvents(ctx context.Context, p domain.Principal) ([]*domain.Event, error)
	ListUnassignedEvents(ctx context.Context, p domain.Principal) ([]*domain.Event, error)
}
