package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// EventFilter carries the query parameters for listing events.
type EventFilter struct {
	ContractID       string // optional
	SupportContactID string // optional: events assigned to this actor
	UnassignedOnly   bool
}

// EventRepository persists scheduled events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	// Get returns a *domain.NotFoundError when no event has the id.
	Get(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, error)
}
