package ports

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
)

// CreateActorInput carries everything needed to register an actor.
type CreateActorInput struct {
	Username    string
	Email       string
	DisplayName string
	Password    string
	Role        string
}

// UpdateActorInput changes the non-nil fields of an actor.
type UpdateActorInput struct {
	ID          string
	Email       *string
	DisplayName *string
	Password    *string
	// Role takes effect on the actor's next session.
	Role *string
}

// ActorService administers internal users.
type ActorService interface {
	CreateActor(ctx context.Context, p domain.Principal, in CreateActorInput) (*domain.Actor, error)
	UpdateActor(ctx context.Context, p domain.Principal, in UpdateActorInput) (*domain.Actor, error)
	DeleteActor(ctx context.Context, p domain.Principal, id string) error
	ListActors(ctx context.Context, p domain.Principal) ([]*domain.Actor, error)
}
