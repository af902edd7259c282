package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// ActorRepository persists actors and their password digests.
type ActorRepository interface {
	// Create fails with domain.ErrActorExists when the username is taken.
	Create(ctx context.Context, actor *domain.Actor) error
	Get(ctx context.Context, id string) (*domain.Actor, error)
	FindByUsername(ctx context.Context, username string) (*domain.Actor, error)
	Update(ctx context.Context, actor *domain.Actor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Actor, error)
}
