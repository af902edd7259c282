package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/authz"
	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/lifecycle"
	"github.com/epicevents/crm/internal/core/ports"
)

const minPasswordLen = 8

// ActorService administers the internal users of the CRM.
type ActorService struct {
	deps  Deps
	creds ports.CredentialStore
	log   zerolog.Logger
}

var _ ports.ActorService = (*ActorService)(nil)

// NewActorService returns the actor administration use cases.
func NewActorService(deps Deps, creds ports.CredentialStore, log zerolog.Logger) *ActorService {
	return &ActorService{deps: deps, creds: creds, log: log}
}

// CreateActor registers a new internal user with a hashed password.
func (s *ActorService) CreateActor(ctx context.Context, p domain.Principal, in ports.CreateActorInput) (*domain.Actor, error) {
	if _, err := s.deps.Authorizer.Authorize(ctx, p, authz.ActorCreate, ""); err != nil {
		return nil, err
	}
	return s.register(ctx, in, p.ActorID)
}

// Bootstrap creates the first Management actor of an empty installation. It
// needs no session and fails with domain.ErrActorExists once any Management
// actor exists.
func (s *ActorService) Bootstrap(ctx context.Context, in ports.CreateActorInput) (*domain.Actor, error) {
	actors, err := s.deps.Actors.List(ctx)
	if err != nil {
		return nil, loadFailed(s.log, "bootstrap", err)
	}
	for _, a := range actors {
		if a.Role == domain.RoleManagement {
			return nil, domain.ErrActorExists
		}
	}
	in.Role = string(domain.RoleManagement)
	return s.register(ctx, in, "bootstrap")
}

func (s *ActorService) register(ctx context.Context, in ports.CreateActorInput, by string) (*domain.Actor, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, rejected(s.log, domain.KindActor, err)
	}
	now := s.deps.now()
	actor := domain.Actor{
		ID:          newID(),
		Username:    strings.TrimSpace(in.Username),
		Email:       strings.TrimSpace(in.Email),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := lifecycle.CheckActor(actor); err != nil {
		return nil, rejected(s.log, domain.KindActor, err)
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, rejected(s.log, domain.KindActor, err)
	}

	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, saveFailed(s.log, "create actor: hash", err)
	}
	actor.PasswordHash = hash

	if err := s.deps.Actors.Create(ctx, &actor); err != nil {
		if errors.Is(err, domain.ErrActorExists) {
			return nil, rejected(s.log, domain.KindActor, err)
		}
		return nil, saveFailed(s.log, "create actor", err)
	}

	mutated(domain.KindActor, "create")
	s.log.Info().Str("actor_id", actor.ID).Str("role", string(role)).Str("by", by).Msg("actor created")
	return &actor, nil
}

// UpdateActor changes profile fields, password or role. A role change applies
// from the actor's next login.
func (s *ActorService) UpdateActor(ctx context.Context, p domain.Principal, in ports.UpdateActorInput) (*domain.Actor, error) {
	if _, err := s.deps.Authorizer.Authorize(ctx, p, authz.ActorUpdate, in.ID); err != nil {
		return nil, err
	}
	prior, err := s.deps.Actors.Get(ctx, in.ID)
	if err != nil {
		return nil, loadFailed(s.log, "update actor", err)
	}

	actor := *prior
	if in.Email != nil {
		actor.Email = strings.TrimSpace(*in.Email)
	}
	if in.DisplayName != nil {
		actor.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Role != nil {
		role, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, rejected(s.log, domain.KindActor, err)
		}
		actor.Role = role
	}
	if err := lifecycle.CheckActor(actor); err != nil {
		return nil, rejected(s.log, domain.KindActor, err)
	}
	if in.Password != nil {
		if err := checkPassword(*in.Password); err != nil {
			return nil, rejected(s.log, domain.KindActor, err)
		}
		hash, err := s.creds.Hash(*in.Password)
		if err != nil {
			return nil, saveFailed(s.log, "update actor: hash", err)
		}
		actor.PasswordHash = hash
	}
	actor.UpdatedAt = s.deps.now()

	if err := s.deps.Actors.Update(ctx, &actor); err != nil {
		return nil, saveFailed(s.log, "update actor", err)
	}
	mutated(domain.KindActor, "update")
	s.log.Info().Str("actor_id", actor.ID).Str("by", p.ActorID).Msg("actor updated")
	return &actor, nil
}

// DeleteActor removes an actor. Records they own keep the dangling id until
// reassigned.
func (s *ActorService) DeleteActor(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.deps.Authorizer.Authorize(ctx, p, authz.ActorDelete, id); err != nil {
		return err
	}
	if id == p.ActorID {
		return rejected(s.log, domain.KindActor, &domain.ValidationError{Problems: []string{"an actor cannot delete themselves"}})
	}
	if err := s.deps.Actors.Delete(ctx, id); err != nil {
		return loadFailed(s.log, "delete actor", err)
	}
	mutated(domain.KindActor, "delete")
	s.log.Info().Str("actor_id", id).Str("by", p.ActorID).Msg("actor deleted")
	return nil
}

// ListActors returns every actor.
func (s *ActorService) ListActors(ctx context.Context, p domain.Principal) ([]*domain.Actor, error) {
	if _, err := s.deps.Authorizer.Authorize(ctx, p, authz.ActorList, ""); err != nil {
		return nil, err
	}
	actors, err := s.deps.Actors.List(ctx)
	if err != nil {
		return nil, loadFailed(s.log, "list actors", err)
	}
	return actors, nil
}

func checkPassword(pw string) error {
	if len(pw) < minPasswordLen {
		return &domain.ValidationError{Problems: []string{"password must be at least 8 characters"}}
	}
	return nil
}
