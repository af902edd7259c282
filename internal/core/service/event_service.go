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

type eventService struct {
	deps Deps
	log  zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(deps Deps, log zerolog.Logger) ports.EventService {
	return &eventService{deps: deps, log: log}
}

// CreateEvent schedules an event under a signed contract in the caller's
// scope, optionally naming its Support contact.
func (s *eventService) CreateEvent(ctx context.Context, p domain.Principal, in ports.CreateEventInput) (*domain.Event, error) {
	// 1. Load the parent contract and authorize against its owner.
	contract, err := s.deps.Authorizer.Contract(ctx, p, authz.EventCreate, in.ContractID)
	if err != nil {
		return nil, loadFailed(s.log, "create event", err)
	}

	// 2. Load the assignee, if any. A missing actor fails the assignee check
	// after the contract and schedule checks.
	supportID := strings.TrimSpace(in.SupportContactID)
	assignee, err := s.assignee(ctx, supportID)
	if err != nil {
		return nil, err
	}

	// 3. Validate against the contract state.
	draft := domain.Event{
		ID:               newID(),
		SupportContactID: supportID,
		Name:             strings.TrimSpace(in.Name),
		Start:            in.Start.UTC(),
		End:              in.End.UTC(),
		Location:         strings.TrimSpace(in.Location),
		Attendees:        in.Attendees,
		Notes:            strings.TrimSpace(in.Notes),
	}
	event, err := lifecycle.NewEvent(*contract, draft, assignee, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindEvent, err)
	}

	// 4. Persist.
	if err := s.deps.Events.Create(ctx, event); err != nil {
		return nil, saveFailed(s.log, "create event", err)
	}
	mutated(domain.KindEvent, "create")
	s.log.Info().
		Str("event_id", event.ID).
		Str("contract_id", event.ContractID).
		Str("support", event.SupportContactID).
		Str("by", p.ActorID).
		Msg("event created")
	return event, nil
}

// UpdateEvent changes the terms of an event in the caller's scope.
func (s *eventService) UpdateEvent(ctx context.Context, p domain.Principal, in ports.UpdateEventInput) (*domain.Event, error) {
	prior, err := s.authorized(ctx, p, authz.EventUpdate, in.ID)
	if err != nil {
		return nil, err
	}
	event, err := lifecycle.UpdateEvent(*prior, lifecycle.EventPatch{
		Name:      in.Name,
		Start:     in.Start,
		End:       in.End,
		Location:  in.Location,
		Attendees: in.Attendees,
		Notes:     in.Notes,
	}, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindEvent, err)
	}
	if err := s.deps.Events.Update(ctx, event); err != nil {
		return nil, saveFailed(s.log, "update event", err)
	}
	mutated(domain.KindEvent, "update")
	s.log.Info().Str("event_id", event.ID).Str("by", p.ActorID).Msg("event updated")
	return event, nil
}

// AssignSupport sets or replaces the event's Support contact.
func (s *eventService) AssignSupport(ctx context.Context, p domain.Principal, eventID, supportID string) (*domain.Event, error) {
	prior, err := s.authorized(ctx, p, authz.EventAssignSupport, eventID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.assignee(ctx, strings.TrimSpace(supportID))
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, rejected(s.log, domain.KindEvent, domain.ErrInvalidAssignee)
	}

	event, err := lifecycle.AssignSupport(*prior, *assignee, s.deps.now())
	if err != nil {
		return nil, rejected(s.log, domain.KindEvent, err)
	}
	if err := s.deps.Events.Update(ctx, event); err != nil {
		return nil, saveFailed(s.log, "assign support", err)
	}
	mutated(domain.KindEvent, "assign")
	s.log.Info().
		Str("event_id", event.ID).
		Str("from", prior.SupportContactID).
		Str("to", event.SupportContactID).
		Str("by", p.ActorID).
		Msg("support assigned")
	return event, nil
}

// ListMyEvents returns the events assigned to the calling Support actor.
func (s *eventService) ListMyEvents(ctx context.Context, p domain.Principal) ([]*domain.Event, error) {
	return s.list(ctx, p, authz.EventListOwn, ports.EventFilter{})
}

// ListUnassignedEvents returns the events still waiting for a Support contact.
func (s *eventService) ListUnassignedEvents(ctx context.Context, p domain.Principal) ([]*domain.Event, error) {
	return s.list(ctx, p, authz.EventFilterUnassigned, ports.EventFilter{UnassignedOnly: true})
}

func (s *eventService) list(ctx context.Context, p domain.Principal, action authz.Action, filter ports.EventFilter) ([]*domain.Event, error) {
	scope, err := s.deps.Authorizer.Authorize(ctx, p, action, "")
	if err != nil {
		return nil, err
	}
	filter.SupportContactID = scope.OwnerID()
	events, err := s.deps.Events.List(ctx, filter)
	if err != nil {
		return nil, loadFailed(s.log, "list events", err)
	}
	return events, nil
}

func (s *eventService) authorized(ctx context.Context, p domain.Principal, action authz.Action, id string) (*domain.Event, error) {
	event, err := s.deps.Authorizer.Event(ctx, p, action, id)
	if err != nil {
		return nil, loadFailed(s.log, string(action), err)
	}
	return event, nil
}

// assignee loads the named actor. It returns nil, nil when id is empty or no
// such actor exists.
func (s *eventService) assignee(ctx context.Context, id string) (*domain.Actor, error) {
	if id == "" {
		return nil, nil
	}
	actor, err := s.deps.Actors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, loadFailed(s.log, "load assignee", err)
	}
	return actor, nil
}
