package cli

import (
	"context"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

func (a *App) eventCreate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("event create")
	contract := f.String("contract", "", "signed contract id")
	name := f.String("name", "", "event name")
	start := f.time("start", "start time, e.g. 2025-06-01 10:00 (UTC)")
	end := f.time("end", "end time, after the start")
	location := f.String("location", "", "venue")
	attendees := f.Int("attendees", 0, "expected attendee count")
	notes := f.String("notes", "", "free-form notes")
	support := f.String("support", "", "support actor id to assign")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("contract", "name", "start", "end", "location"); err != nil {
		return err
	}

	e, err := a.svc.Events.CreateEvent(ctx, p, ports.CreateEventInput{
		ContractID:       *contract,
		Name:             *name,
		Start:            start.v,
		End:              end.v,
		Location:         *location,
		Attendees:        *attendees,
		Notes:            *notes,
		SupportContactID: *support,
	})
	if err != nil {
		return err
	}
	return a.renderEvents([]*domain.Event{e})
}

func (a *App) eventUpdate(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("event update")
	id := f.String("id", "", "event id")
	name := f.String("name", "", "event name")
	start := f.time("start", "start time")
	end := f.time("end", "end time")
	location := f.String("location", "", "venue")
	attendees := f.Int("attendees", 0, "expected attendee count")
	notes := f.String("notes", "", "free-form notes")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id"); err != nil {
		return err
	}

	e, err := a.svc.Events.UpdateEvent(ctx, p, ports.UpdateEventInput{
		ID:        *id,
		Name:      f.optString("name", *name),
		Start:     f.optTime("start", start),
		End:       f.optTime("end", end),
		Location:  f.optString("location", *location),
		Attendees: f.optInt("attendees", *attendees),
		Notes:     f.optString("notes", *notes),
	})
	if err != nil {
		return err
	}
	return a.renderEvents([]*domain.Event{e})
}

func (a *App) eventAssign(ctx context.Context, p domain.Principal, args []string) error {
	f := a.flags("event assign")
	id := f.String("id", "", "event id")
	support := f.String("support", "", "support actor id")
	if err := f.parse(args); err != nil {
		return err
	}
	if err := f.require("id", "support"); err != nil {
		return err
	}

	e, err := a.svc.Events.AssignSupport(ctx, p, *id, *support)
	if err != nil {
		return err
	}
	return a.renderEvents([]*domain.Event{e})
}

func (a *App) eventMine(ctx context.Context, p domain.Principal, args []string) error {
	if err := a.flags("event mine").parse(args); err != nil {
		return err
	}
	events, err := a.svc.Events.ListMyEvents(ctx, p)
	if err != nil {
		return err
	}
	return a.renderEvents(events)
}

func (a *App) eventUnassigned(ctx context.Context, p domain.Principal, args []string) error {
	if err := a.flags("event unassigned").parse(args); err != nil {
		return err
	}
	events, err := a.svc.Events.ListUnassignedEvents(ctx, p)
	if err != nil {
		return err
	}
	return a.renderEvents(events)
}
